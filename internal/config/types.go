package config

// Config is the root configuration for the ticket helper bot.
type Config struct {
	Discord     DiscordConfig     `yaml:"discord"`
	Tickets     TicketsConfig     `yaml:"tickets"`
	Transcripts TranscriptsConfig `yaml:"transcripts"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
}

// DiscordConfig identifies the bot account and the guild it serves.
type DiscordConfig struct {
	Token   string `yaml:"token"`
	GuildID string `yaml:"guildId"`
}

// TicketsConfig names the monitored ticket categories, the staff queue
// channel, and the roles allowed to work the queue.
type TicketsConfig struct {
	QueueChannel     string           `yaml:"queueChannel"`
	OnlineCategory   string           `yaml:"onlineCategory"`
	InPersonCategory string           `yaml:"inPersonCategory"`
	StaffRoles       StaffRolesConfig `yaml:"staffRoles"`
}

// StaffRolesConfig holds the three role identities that count as staff.
type StaffRolesConfig struct {
	Assistant       string `yaml:"assistant"`
	SeniorAssistant string `yaml:"seniorAssistant"`
	Instructor      string `yaml:"instructor"`
}

// IDs returns the configured role identities in a fixed order.
func (r StaffRolesConfig) IDs() []string {
	return []string{r.Assistant, r.SeniorAssistant, r.Instructor}
}

// TranscriptsConfig controls transcript delivery. GistToken is the only
// optional credential in the whole configuration: without it transcripts
// are download-only.
type TranscriptsConfig struct {
	ArchiveChannel string `yaml:"archiveChannel"`
	GistToken      string `yaml:"gistToken,omitempty"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
}
