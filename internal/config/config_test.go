package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validYAML = `
discord:
  token: abc123
  guildId: "100"
tickets:
  queueChannel: "200"
  onlineCategory: "300"
  inPersonCategory: "301"
  staffRoles:
    assistant: "400"
    seniorAssistant: "401"
    instructor: "402"
transcripts:
  archiveChannel: "500"
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.Discord.Token)
	assert.Equal(t, "300", cfg.Tickets.OnlineCategory)
	assert.Equal(t, []string{"400", "401", "402"}, cfg.Tickets.StaffRoles.IDs())
	assert.Equal(t, "info", cfg.Logging.Level, "default level applied")
	assert.Empty(t, Validate(&cfg))
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)

	issues := Validate(&cfg)
	assert.NotEmpty(t, issues, "empty config must fail validation")
}

func TestLoadExpandsCredentialEnvRefs(t *testing.T) {
	t.Setenv("TH_TEST_TOKEN", "secret-token")
	path := writeConfig(t, `
discord:
  token: ${TH_TEST_TOKEN}
  guildId: "100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Discord.Token)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TICKETHELPER_TOKEN", "env-token")
	t.Setenv("TICKETHELPER_LOG_LEVEL", "DEBUG")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRequiredFields(t *testing.T) {
	cfg := Config{}
	applyDefaults(&cfg)

	issues := Validate(&cfg)
	paths := make([]string, 0, len(issues))
	for _, issue := range issues {
		paths = append(paths, issue.Path)
	}

	assert.Contains(t, paths, "discord.token")
	assert.Contains(t, paths, "tickets.queueChannel")
	assert.Contains(t, paths, "tickets.staffRoles.instructor")
	assert.Contains(t, paths, "transcripts.archiveChannel")
	assert.NotContains(t, paths, "transcripts.gistToken", "gist token is optional")
}

func TestValidateRejectsSameCategories(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	cfg.Tickets.InPersonCategory = cfg.Tickets.OnlineCategory

	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "tickets.inPersonCategory", issues[0].Path)
}

func TestValidateLogLevel(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	cfg.Logging.Level = "verbose"

	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "logging.level", issues[0].Path)
}
