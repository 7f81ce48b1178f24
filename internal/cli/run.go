package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/soyeahso/tickethelper/internal/config"
	"github.com/soyeahso/tickethelper/internal/logging"
	"github.com/soyeahso/tickethelper/internal/platform/discord"
	"github.com/soyeahso/tickethelper/internal/queue"
	"github.com/soyeahso/tickethelper/internal/routing"
	"github.com/soyeahso/tickethelper/internal/ticket"
	"github.com/soyeahso/tickethelper/internal/transcript"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var resolveAttempts int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the ticket bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			// The flag wins over the config file for log verbosity.
			level := logLevel
			if level == "" && cfg.Logging.Level != "" {
				level = cfg.Logging.Level
			}
			if level == "" {
				level = "info"
			}

			// Console plus a JSON log file under the logs directory.
			logPath := filepath.Join(paths.Logs, "tickethelper.log")
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err != nil {
				log = logging.New(nil, level)
				log.Warn().Err(err).Str("path", logPath).Msg("could not open log file, console only")
			} else {
				defer logFile.Close()
				log = logging.NewWithFile(logFile, level)
			}

			adapter, err := discord.New(discord.Config{
				Token:   cfg.Discord.Token,
				GuildID: cfg.Discord.GuildID,
			}, log)
			if err != nil {
				return err
			}

			tickets := ticket.NewRegistry(log)

			q := queue.New(adapter, tickets, queue.Config{
				QueueChannel: cfg.Tickets.QueueChannel,
				GuildID:      cfg.Discord.GuildID,
				StaffRoles:   cfg.Tickets.StaffRoles.IDs(),
			}, log)

			publisher := transcript.NewPublisher(cfg.Transcripts.GistToken, log)
			if !publisher.Enabled() {
				log.Warn().Msg("no gist token configured — transcripts will be attachment-only")
			}
			pipeline := transcript.NewPipeline(adapter, publisher, cfg.Transcripts.ArchiveChannel, log)

			router := routing.New(tickets, q, pipeline, adapter, routing.Config{
				OnlineCategory:   cfg.Tickets.OnlineCategory,
				InPersonCategory: cfg.Tickets.InPersonCategory,
				ResolveAttempts:  resolveAttempts,
				ResolveDelay:     250 * time.Millisecond,
			}, log)

			adapter.OnEvent(router.Dispatch)

			log.Info().
				Str("guild", cfg.Discord.GuildID).
				Str("queue_channel", cfg.Tickets.QueueChannel).
				Str("online_category", cfg.Tickets.OnlineCategory).
				Str("in_person_category", cfg.Tickets.InPersonCategory).
				Msg("starting ticket bot")

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return adapter.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&resolveAttempts, "resolve-attempts", 0, "override opener resolution attempts")

	return cmd
}
