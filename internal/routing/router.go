// Package routing maps platform events onto the ticket registry, the
// help request queue, and the transcript pipeline.
package routing

import (
	"context"
	"errors"
	"time"

	"github.com/soyeahso/tickethelper/internal/domain"
	"github.com/soyeahso/tickethelper/internal/logging"
	"github.com/soyeahso/tickethelper/internal/queue"
	"github.com/soyeahso/tickethelper/internal/ticket"
	"github.com/soyeahso/tickethelper/internal/transcript"
)

// Actor-visible reply texts.
const (
	msgWelcome = "**Welcome to your private ticket!**\n\n" +
		"This space is private between **you and the course bot**.\n" +
		"You can work on your assignment here without anyone watching.\n\n" +
		"**Need a TA or Instructor?**\n" +
		"Click the **Request Help** button below and fill out the form.\n" +
		"A staff member will review your request and join if needed.\n\n" +
		"**When you've completed the assignment:**\n" +
		"Close the ticket from this channel and your transcript will be automatically saved.\n"

	msgSubmitted = "✅ Your request has been sent to staff. A TA or Instructor will review it and join your ticket if needed."
	msgTooShort  = "❌ Please provide more detail:\n• Issue Summary needs at least 20 characters\n• \"What you tried\" needs at least 30 characters"
	msgNotStaff  = "❌ Only TAs, Head TAs, or Instructors can work help requests."
	msgStale     = "This help request was already handled."
	msgInternal  = "❌ An error occurred while processing your request. Please try again or contact an administrator."
)

// Config holds the router's channel-classification identities and the
// opener-resolution retry policy.
type Config struct {
	OnlineCategory   string
	InPersonCategory string

	// Opener resolution retries against the permission fetch, replacing
	// the fixed provisioning delay the workflow otherwise needs.
	ResolveAttempts int
	ResolveDelay    time.Duration
}

// Router is the event-routing layer. It owns no state of its own; all
// state lives in the components it dispatches to.
type Router struct {
	tickets  *ticket.Registry
	queue    *queue.Queue
	pipeline *transcript.Pipeline
	sink     domain.Sink
	cfg      Config
	log      *logging.Logger
}

// New creates an event router.
func New(tickets *ticket.Registry, q *queue.Queue, pipeline *transcript.Pipeline, sink domain.Sink, cfg Config, log *logging.Logger) *Router {
	if cfg.ResolveAttempts <= 0 {
		cfg.ResolveAttempts = 3
	}
	if cfg.ResolveDelay <= 0 {
		cfg.ResolveDelay = 250 * time.Millisecond
	}
	return &Router{
		tickets:  tickets,
		queue:    q,
		pipeline: pipeline,
		sink:     sink,
		cfg:      cfg,
		log:      log.Sub("routing"),
	}
}

// Dispatch routes one platform event. Panics are contained at this
// boundary: logged, and answered with a generic failure when an
// interaction is waiting on a response.
func (r *Router) Dispatch(ctx context.Context, evt domain.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().
				Str("event", evt.EventKind()).
				Any("panic", rec).
				Msg("event handler panicked")
			if respond := eventResponder(evt); respond != nil {
				_ = respond.Ephemeral(ctx, msgInternal)
			}
		}
	}()

	switch e := evt.(type) {
	case domain.ChannelOpened:
		r.handleChannelOpened(ctx, e)
	case domain.ChannelClosed:
		r.handleChannelClosed(ctx, e)
	case domain.MessageArrived:
		r.handleMessageArrived(e)
	case domain.HelpFormOpened:
		r.handleHelpFormOpened(ctx, e)
	case domain.HelpRequested:
		r.handleHelpRequested(ctx, e)
	case domain.ClaimAttempted:
		r.handleClaimAttempted(ctx, e)
	case domain.CloseAttempted:
		r.handleCloseAttempted(ctx, e)
	default:
		r.log.Debug().Str("event", evt.EventKind()).Msg("unhandled event kind")
	}
}

// monitored reports whether a parent category is one of the two ticket
// categories; everything else is ignored entirely.
func (r *Router) monitored(parentID string) bool {
	return parentID != "" &&
		(parentID == r.cfg.OnlineCategory || parentID == r.cfg.InPersonCategory)
}

func (r *Router) category(parentID string) domain.Category {
	switch parentID {
	case r.cfg.OnlineCategory:
		return domain.CategoryOnline
	case r.cfg.InPersonCategory:
		return domain.CategoryInPerson
	default:
		return domain.CategoryUnknown
	}
}

func (r *Router) handleChannelOpened(ctx context.Context, e domain.ChannelOpened) {
	if !r.monitored(e.ParentID) {
		return
	}

	r.tickets.Open(e.ChannelID, e.ChannelName, r.category(e.ParentID), e.CreatedAt)
	r.resolveOpener(ctx, e.ChannelID)

	welcome := domain.Message{
		Content: msgWelcome,
		Buttons: []domain.Button{{
			ID:    "reqhelp:" + e.ChannelID,
			Label: "Request Help",
			Style: domain.ButtonPrimary,
			Emoji: "🙋",
		}},
	}
	ref, err := r.sink.SendMessage(ctx, e.ChannelID, welcome)
	if err != nil {
		r.log.Error().Err(err).Str("channel", e.ChannelID).Msg("failed to post welcome message")
		return
	}
	if err := r.sink.PinMessage(ctx, ref); err != nil {
		r.log.Warn().Err(err).Str("channel", e.ChannelID).Msg("could not pin welcome message")
	}
}

// resolveOpener scans the channel's per-member grants for the first
// non-bot identity. The provisioning bot may still be setting up the
// channel, so the fetch is retried a few times with a growing delay;
// resolution stays best-effort beyond that.
func (r *Router) resolveOpener(ctx context.Context, channelID string) {
	for attempt := 1; attempt <= r.cfg.ResolveAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * r.cfg.ResolveDelay):
		}

		members, err := r.sink.ChannelMembers(ctx, channelID)
		if err != nil {
			r.log.Debug().Err(err).
				Str("channel", channelID).
				Int("attempt", attempt).
				Msg("permission fetch failed")
			continue
		}
		for _, m := range members {
			if !m.IsBot {
				r.tickets.SetOpener(channelID, m)
				return
			}
		}
	}
	r.log.Warn().Str("channel", channelID).Msg("could not resolve ticket opener")
}

func (r *Router) handleMessageArrived(e domain.MessageArrived) {
	if !r.monitored(e.ParentID) {
		return
	}
	r.tickets.Append(e.ChannelID, ticket.MessageRecord{
		Author:      e.Author.DisplayName,
		IsBot:       e.Author.IsBot,
		Timestamp:   e.Timestamp,
		Content:     e.Content,
		Attachments: e.Attachments,
		EmbedCount:  e.EmbedCount,
	})
}

func (r *Router) handleHelpFormOpened(ctx context.Context, e domain.HelpFormOpened) {
	if err := e.Respond.ShowHelpForm(ctx, e.ChannelID); err != nil {
		r.log.Error().Err(err).Str("channel", e.ChannelID).Msg("failed to show help request form")
	}
}

func (r *Router) handleHelpRequested(ctx context.Context, e domain.HelpRequested) {
	err := r.queue.Submit(ctx, queue.Submission{
		TicketID:  e.ChannelID,
		Category:  r.category(e.ParentID),
		Requester: e.Requester,
		Summary:   e.Summary,
		Attempts:  e.Attempts,
	})
	switch {
	case err == nil:
		r.reply(ctx, e.Respond, msgSubmitted)
	case errors.Is(err, queue.ErrSummaryTooShort), errors.Is(err, queue.ErrAttemptsTooShort):
		r.reply(ctx, e.Respond, msgTooShort)
	default:
		r.log.Error().Err(err).Str("channel", e.ChannelID).Msg("help request submission failed")
		r.reply(ctx, e.Respond, msgInternal)
	}
}

func (r *Router) handleClaimAttempted(ctx context.Context, e domain.ClaimAttempted) {
	err := r.queue.Claim(ctx, e.TicketID, e.Actor, e.Respond)
	r.answerQueueAction(ctx, "claim", e.TicketID, e.Respond, err)
}

func (r *Router) handleCloseAttempted(ctx context.Context, e domain.CloseAttempted) {
	err := r.queue.Close(ctx, e.TicketID, e.Actor, e.Respond)
	r.answerQueueAction(ctx, "close", e.TicketID, e.Respond, err)
}

func (r *Router) answerQueueAction(ctx context.Context, action, ticketID string, respond domain.Responder, err error) {
	switch {
	case err == nil:
		// The queue-post update already acknowledged the interaction.
	case errors.Is(err, queue.ErrNotStaff):
		r.reply(ctx, respond, msgNotStaff)
	case errors.Is(err, queue.ErrNoEntry),
		errors.Is(err, queue.ErrNotPending),
		errors.Is(err, queue.ErrAlreadyClosed):
		r.reply(ctx, respond, msgStale)
	default:
		r.log.Error().Err(err).
			Str("action", action).
			Str("ticket", ticketID).
			Msg("queue action failed")
		r.reply(ctx, respond, msgInternal)
	}
}

func (r *Router) handleChannelClosed(ctx context.Context, e domain.ChannelClosed) {
	if !r.monitored(e.ParentID) {
		return
	}
	r.log.Info().
		Str("channel", e.ChannelID).
		Str("name", e.ChannelName).
		Msg("ticket channel deleted, generating transcript from cache")

	r.queue.ReleaseForTicket(ctx, e.ChannelID)

	// Last-chance opener resolution from the deleted channel's final
	// access grants; a no-op when open-time resolution already landed.
	for _, m := range e.Members {
		if !m.IsBot {
			r.tickets.SetOpener(e.ChannelID, m)
			break
		}
	}

	snap, ok := r.tickets.CloseAndExtract(e.ChannelID)
	if !ok {
		r.log.Warn().Str("channel", e.ChannelID).Msg("no session state for deleted channel")
		return
	}
	r.pipeline.Generate(ctx, snap)
}

func (r *Router) reply(ctx context.Context, respond domain.Responder, content string) {
	if err := respond.Ephemeral(ctx, content); err != nil {
		r.log.Warn().Err(err).Msg("failed to send interaction reply")
	}
}

// eventResponder extracts the responder from interaction events so the
// panic boundary can answer a waiting interaction.
func eventResponder(evt domain.Event) domain.Responder {
	switch e := evt.(type) {
	case domain.HelpFormOpened:
		return e.Respond
	case domain.HelpRequested:
		return e.Respond
	case domain.ClaimAttempted:
		return e.Respond
	case domain.CloseAttempted:
		return e.Respond
	default:
		return nil
	}
}
