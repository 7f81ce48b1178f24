// Package discord adapts the Discord gateway to the bot's internal
// event and command model. It is the only package that touches the
// platform SDK; everything it hands inward is a domain type.
package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/soyeahso/tickethelper/internal/domain"
	"github.com/soyeahso/tickethelper/internal/logging"
)

// Config identifies the bot account and its guild.
type Config struct {
	Token   string
	GuildID string
}

// EventHandler consumes translated platform events.
type EventHandler func(ctx context.Context, evt domain.Event)

// Adapter is the Discord implementation of domain.Sink plus the inbound
// event translation layer.
type Adapter struct {
	session *discordgo.Session
	guildID string
	handle  EventHandler
	log     *logging.Logger
}

// New creates a Discord adapter. The session is not opened until Start.
func New(cfg Config, log *logging.Logger) (*Adapter, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Adapter{
		session: session,
		guildID: cfg.GuildID,
		log:     log.Sub("discord"),
	}, nil
}

// OnEvent registers the handler that receives translated events.
// Handlers run on discordgo's per-event goroutines.
func (a *Adapter) OnEvent(handle EventHandler) {
	a.handle = handle
}

// Start logs in and blocks until the context is cancelled. A login
// failure is returned to the caller, where it is fatal by design.
func (a *Adapter) Start(ctx context.Context) error {
	a.registerHandlers()

	if err := a.session.Open(); err != nil {
		return fmt.Errorf("discord login failed: %w", err)
	}
	a.log.Info().Msg("connected to discord gateway")

	<-ctx.Done()
	return a.session.Close()
}

func (a *Adapter) registerHandlers() {
	a.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		a.log.Info().
			Str("user", r.User.String()).
			Str("guild", a.guildID).
			Msg("logged in, monitoring for ticket channels")
	})
	a.session.AddHandler(a.onChannelCreate)
	a.session.AddHandler(a.onChannelDelete)
	a.session.AddHandler(a.onMessageCreate)
	a.session.AddHandler(a.onInteractionCreate)
}

func (a *Adapter) dispatch(evt domain.Event) {
	if a.handle == nil {
		return
	}
	a.handle(context.Background(), evt)
}

func (a *Adapter) onChannelCreate(_ *discordgo.Session, e *discordgo.ChannelCreate) {
	if e.Type != discordgo.ChannelTypeGuildText {
		return
	}
	createdAt, err := discordgo.SnowflakeTimestamp(e.ID)
	if err != nil {
		createdAt = time.Now()
	}
	a.dispatch(domain.ChannelOpened{
		ChannelID:   e.ID,
		ChannelName: e.Name,
		ParentID:    e.ParentID,
		CreatedAt:   createdAt,
	})
}

func (a *Adapter) onChannelDelete(_ *discordgo.Session, e *discordgo.ChannelDelete) {
	if e.Type != discordgo.ChannelTypeGuildText {
		return
	}
	// The delete payload still carries the channel's final permission
	// overwrites; resolve them now, the channel itself is already gone.
	a.dispatch(domain.ChannelClosed{
		ChannelID:   e.ID,
		ChannelName: e.Name,
		ParentID:    e.ParentID,
		Members:     a.overwriteMembers(context.Background(), e.PermissionOverwrites),
	})
}

func (a *Adapter) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	a.dispatch(domain.MessageArrived{
		ChannelID:   m.ChannelID,
		ParentID:    a.channelParent(m.ChannelID),
		Author:      messageAuthor(m),
		Content:     m.Content,
		Timestamp:   m.Timestamp,
		Attachments: toAttachmentRefs(m.Attachments),
		EmbedCount:  len(m.Embeds),
	})
}

func (a *Adapter) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	respond := &interactionResponder{session: a.session, interaction: i.Interaction}

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		kind, ticketID := splitControlID(i.MessageComponentData().CustomID)
		switch kind {
		case "reqhelp":
			a.dispatch(domain.HelpFormOpened{ChannelID: ticketID, Respond: respond})
		case "claim":
			a.dispatch(domain.ClaimAttempted{TicketID: ticketID, Actor: interactionActor(i), Respond: respond})
		case "qclose":
			a.dispatch(domain.CloseAttempted{TicketID: ticketID, Actor: interactionActor(i), Respond: respond})
		}

	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		kind, ticketID := splitControlID(data.CustomID)
		if kind != "reqform" {
			return
		}
		fields := modalFields(data)
		a.dispatch(domain.HelpRequested{
			ChannelID: ticketID,
			ParentID:  a.channelParent(ticketID),
			Requester: interactionActor(i),
			Summary:   fields["issue"],
			Attempts:  fields["tried"],
			Respond:   respond,
		})
	}
}

// channelParent resolves a channel's category, preferring the state
// cache over a gateway round trip.
func (a *Adapter) channelParent(channelID string) string {
	if ch, err := a.session.State.Channel(channelID); err == nil {
		return ch.ParentID
	}
	ch, err := a.session.Channel(channelID)
	if err != nil {
		a.log.Debug().Err(err).Str("channel", channelID).Msg("channel lookup failed")
		return ""
	}
	return ch.ParentID
}

// splitControlID separates a control identity like "claim:123" into its
// kind and ticket id.
func splitControlID(customID string) (kind, id string) {
	kind, id, _ = strings.Cut(customID, ":")
	return kind, id
}

func modalFields(data discordgo.ModalSubmitInteractionData) map[string]string {
	fields := make(map[string]string)
	for _, row := range data.Components {
		actions, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actions.Components {
			if input, ok := comp.(*discordgo.TextInput); ok {
				fields[input.CustomID] = input.Value
			}
		}
	}
	return fields
}

func messageAuthor(m *discordgo.MessageCreate) domain.Actor {
	actor := domain.Actor{
		ID:          m.Author.ID,
		DisplayName: m.Author.String(),
		IsBot:       m.Author.Bot,
	}
	if m.Member != nil {
		actor.Roles = m.Member.Roles
	}
	return actor
}

func interactionActor(i *discordgo.InteractionCreate) domain.Actor {
	if i.Member != nil && i.Member.User != nil {
		name := i.Member.Nick
		if name == "" {
			name = i.Member.User.String()
		}
		return domain.Actor{
			ID:          i.Member.User.ID,
			DisplayName: name,
			IsBot:       i.Member.User.Bot,
			Roles:       i.Member.Roles,
		}
	}
	if i.User != nil {
		return domain.Actor{ID: i.User.ID, DisplayName: i.User.String(), IsBot: i.User.Bot}
	}
	return domain.Actor{}
}
