package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid. The gist
// token is deliberately not checked: running without it is a supported
// mode (download-only transcripts).
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	required := []struct {
		path, value string
	}{
		{"discord.token", cfg.Discord.Token},
		{"discord.guildId", cfg.Discord.GuildID},
		{"tickets.queueChannel", cfg.Tickets.QueueChannel},
		{"tickets.onlineCategory", cfg.Tickets.OnlineCategory},
		{"tickets.inPersonCategory", cfg.Tickets.InPersonCategory},
		{"tickets.staffRoles.assistant", cfg.Tickets.StaffRoles.Assistant},
		{"tickets.staffRoles.seniorAssistant", cfg.Tickets.StaffRoles.SeniorAssistant},
		{"tickets.staffRoles.instructor", cfg.Tickets.StaffRoles.Instructor},
		{"transcripts.archiveChannel", cfg.Transcripts.ArchiveChannel},
	}
	for _, r := range required {
		if r.value == "" {
			issues = append(issues, ValidationIssue{Path: r.path, Message: "is required"})
		}
	}

	if cfg.Tickets.OnlineCategory != "" && cfg.Tickets.OnlineCategory == cfg.Tickets.InPersonCategory {
		issues = append(issues, ValidationIssue{
			Path:    "tickets.inPersonCategory",
			Message: "must differ from tickets.onlineCategory",
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	return issues
}
