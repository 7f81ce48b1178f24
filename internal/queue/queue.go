// Package queue manages staff-facing help requests: one external queue
// post per active request, plus the claim protocol that brings a staff
// member into the ticket channel.
package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/soyeahso/tickethelper/internal/domain"
	"github.com/soyeahso/tickethelper/internal/logging"
	"github.com/soyeahso/tickethelper/internal/ticket"
)

// Status is the lifecycle state of a help request entry.
type Status string

const (
	StatusPending          Status = "pending"
	StatusClaimed          Status = "claimed"
	StatusClosedUnclaimed  Status = "closed-unclaimed"
	StatusClosedAfterClaim Status = "closed-after-claim"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusClosedUnclaimed || s == StatusClosedAfterClaim
}

// Minimum lengths for a valid submission, matching the form's stated
// requirements.
const (
	minSummaryLen  = 20
	minAttemptsLen = 30
)

// Submission is a validated-on-entry help request from a student.
type Submission struct {
	TicketID   string
	TicketName string
	Category   domain.Category
	Requester  domain.Actor
	Summary    string
	Attempts   string
}

// Entry tracks one external queue post. The registry holds at most one
// entry per ticket: a second submission for the same ticket replaces
// the tracked reference and the superseded post's controls are left
// orphaned. Known limitation, kept to match observed behavior.
type Entry struct {
	TicketID   string
	TicketName string
	Ref        domain.MessageRef
	Status     Status
	Claimant   string
	embed      domain.Embed // submission embed, base for later edits
}

// Config holds the queue's external identities.
type Config struct {
	QueueChannel string
	GuildID      string
	StaffRoles   []string
}

// Queue owns help request entries and drives their state machine.
type Queue struct {
	mu      sync.Mutex
	entries map[string]*Entry
	sink    domain.Sink
	tickets *ticket.Registry
	cfg     Config
	log     *logging.Logger
}

// New creates a help request queue.
func New(sink domain.Sink, tickets *ticket.Registry, cfg Config, log *logging.Logger) *Queue {
	return &Queue{
		entries: make(map[string]*Entry),
		sink:    sink,
		tickets: tickets,
		cfg:     cfg,
		log:     log.Sub("queue"),
	}
}

// Submit validates a help request and posts it to the staff queue.
// Validation failures return before anything is sent or tracked.
func (q *Queue) Submit(ctx context.Context, sub Submission) error {
	sub.Summary = strings.TrimSpace(sub.Summary)
	sub.Attempts = strings.TrimSpace(sub.Attempts)

	if utf8.RuneCountInString(sub.Summary) < minSummaryLen {
		return ErrSummaryTooShort
	}
	if utf8.RuneCountInString(sub.Attempts) < minAttemptsLen {
		return ErrAttemptsTooShort
	}
	if sub.TicketName == "" {
		sub.TicketName = q.tickets.ChannelName(sub.TicketID)
	}

	msg := q.submissionMessage(sub)
	ref, err := q.sink.SendMessage(ctx, q.cfg.QueueChannel, msg)
	if err != nil {
		return fmt.Errorf("posting help request to queue: %w", err)
	}

	q.mu.Lock()
	if old, exists := q.entries[sub.TicketID]; exists {
		q.log.Warn().
			Str("ticket", sub.TicketID).
			Str("status", string(old.Status)).
			Msg("superseding tracked help request, earlier queue post left as-is")
	}
	q.entries[sub.TicketID] = &Entry{
		TicketID:   sub.TicketID,
		TicketName: sub.TicketName,
		Ref:        ref,
		Status:     StatusPending,
		embed:      *msg.Embed,
	}
	q.mu.Unlock()

	q.log.Info().
		Str("ticket", sub.TicketID).
		Str("channel", sub.TicketName).
		Str("requester", sub.Requester.DisplayName).
		Msg("help request posted to queue")
	return nil
}

// Claim transitions a Pending entry to Claimed for a staff actor. The
// status is re-checked under the lock at the moment of transition, so
// of two racing claims exactly one commits; the loser gets
// ErrNotPending as if the entry were already claimed when it clicked.
func (q *Queue) Claim(ctx context.Context, ticketID string, actor domain.Actor, respond domain.Responder) error {
	if !actor.HasAnyRole(q.cfg.StaffRoles...) {
		return ErrNotStaff
	}

	q.mu.Lock()
	entry, ok := q.entries[ticketID]
	if !ok {
		q.mu.Unlock()
		return ErrNoEntry
	}
	if entry.Status != StatusPending {
		q.mu.Unlock()
		return ErrNotPending
	}
	entry.Status = StatusClaimed
	entry.Claimant = actor.DisplayName
	ticketName := entry.TicketName
	update := q.claimedMessage(entry, actor)
	q.mu.Unlock()

	// The transition is committed; everything below is delivery, each
	// step contained so one failure doesn't block the rest.
	q.tickets.RecordClaimant(ticketID, actor.DisplayName)

	if err := q.sink.GrantChannelAccess(ctx, ticketID, actor.ID); err != nil {
		q.log.Error().Err(err).Str("ticket", ticketID).Msg("failed to grant channel access to claimant")
	}
	if err := respond.UpdateMessage(ctx, update); err != nil {
		q.log.Error().Err(err).Str("ticket", ticketID).Msg("failed to update queue post after claim")
	}
	announce := domain.Message{Content: fmt.Sprintf("👋 <@%s> has joined to help!", actor.ID)}
	if _, err := q.sink.SendMessage(ctx, ticketID, announce); err != nil {
		q.log.Error().Err(err).Str("ticket", ticketID).Msg("failed to announce claim in ticket channel")
	}

	q.log.Info().
		Str("ticket", ticketID).
		Str("channel", ticketName).
		Str("claimant", actor.DisplayName).
		Msg("help request claimed")
	return nil
}

// Close moves an entry to its terminal state: ClosedUnclaimed from
// Pending, ClosedAfterClaim from Claimed. Re-entrant clicks on an
// already-terminal entry are rejected without re-applying side effects.
func (q *Queue) Close(ctx context.Context, ticketID string, actor domain.Actor, respond domain.Responder) error {
	if !actor.HasAnyRole(q.cfg.StaffRoles...) {
		return ErrNotStaff
	}

	q.mu.Lock()
	entry, ok := q.entries[ticketID]
	if !ok {
		q.mu.Unlock()
		return ErrNoEntry
	}
	if entry.Status.Terminal() {
		q.mu.Unlock()
		return ErrAlreadyClosed
	}
	var footer string
	if entry.Status == StatusClaimed {
		entry.Status = StatusClosedAfterClaim
		footer = fmt.Sprintf("🗑️ Dismissed by %s", actor.DisplayName)
	} else {
		entry.Status = StatusClosedUnclaimed
		footer = fmt.Sprintf("🗑️ Closed by %s without joining", actor.DisplayName)
	}
	update := q.inactiveMessage(entry, footer)
	q.mu.Unlock()

	if err := respond.UpdateMessage(ctx, update); err != nil {
		q.log.Error().Err(err).Str("ticket", ticketID).Msg("failed to update queue post after close")
	}

	q.log.Info().
		Str("ticket", ticketID).
		Str("actor", actor.DisplayName).
		Msg("help request closed")
	return nil
}

// ReleaseForTicket removes tracking when the owning ticket closes and
// stamps the queue post with a transcript-saved footer, whatever state
// the entry was in. Returns false when nothing was tracked.
func (q *Queue) ReleaseForTicket(ctx context.Context, ticketID string) bool {
	q.mu.Lock()
	entry, ok := q.entries[ticketID]
	if ok {
		delete(q.entries, ticketID)
	}
	q.mu.Unlock()

	if !ok {
		return false
	}

	update := q.inactiveMessage(entry, "✅ Ticket closed - Transcript saved at "+clockStamp())
	if err := q.sink.EditMessage(ctx, entry.Ref, update); err != nil {
		q.log.Error().Err(err).Str("ticket", ticketID).Msg("failed to finalize queue post for closed ticket")
	}

	q.log.Info().
		Str("ticket", ticketID).
		Str("status", string(entry.Status)).
		Msg("help request released with ticket close")
	return true
}

// StatusOf reports the tracked entry's status for a ticket.
func (q *Queue) StatusOf(ticketID string) (Status, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if entry, ok := q.entries[ticketID]; ok {
		return entry.Status, true
	}
	return "", false
}
