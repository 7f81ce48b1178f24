package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} references in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} references with environment variable
// values. Unset variables are left as-is.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields resolves environment references in credential
// fields so tokens can be stored as ${ENV_VAR} in the config file.
func expandSensitiveFields(cfg *Config) {
	cfg.Discord.Token = expandEnvVars(cfg.Discord.Token)
	cfg.Transcripts.GistToken = expandEnvVars(cfg.Transcripts.GistToken)
}

// Load reads the config file, applies defaults and environment
// overrides, and returns the merged Config. A missing file yields
// defaults only; validation catches anything still unset.
func Load(path string) (Config, error) {
	cfg := Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides reads TICKETHELPER_* environment variables and
// overrides config values. Credentials are the main use: they let
// deployments keep tokens out of the config file entirely.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TICKETHELPER_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("TICKETHELPER_GUILD_ID"); v != "" {
		cfg.Discord.GuildID = v
	}
	if v := os.Getenv("TICKETHELPER_GIST_TOKEN"); v != "" {
		cfg.Transcripts.GistToken = v
	}
	if v := os.Getenv("TICKETHELPER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}
