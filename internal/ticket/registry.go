// Package ticket tracks open ticket sessions and their cached message
// history, keyed by channel identity.
package ticket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soyeahso/tickethelper/internal/domain"
	"github.com/soyeahso/tickethelper/internal/logging"
)

// session is the mutable state of one open ticket channel.
type session struct {
	channelID   string
	channelName string
	category    domain.Category
	createdAt   time.Time
	opener      string // display identity, "" until resolved
	openerID    string
	claimants   []string
	cache       *Cache
}

// Snapshot is the immutable final state of a session, handed to the
// transcript pipeline after the session has been removed from the
// registry.
type Snapshot struct {
	ID          string // unique per extraction
	ChannelID   string
	ChannelName string
	Category    domain.Category
	CreatedAt   time.Time
	ClosedAt    time.Time
	Opener      string
	OpenerID    string
	Claimants   []string
	Records     []MessageRecord
}

// Registry owns all open ticket sessions. All methods are safe for
// concurrent use; each mutation is a single critical section so no
// read-then-write spans a suspension point.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	log      *logging.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		log:      log.Sub("tickets"),
	}
}

// Open creates a session with an empty cache and an unresolved opener.
// A duplicate open for a live channel id overwrites the earlier session,
// cache included; the platform guarantees unique channel ids, so this
// only fires on a guarantee violation and is logged as such.
func (r *Registry) Open(channelID, channelName string, category domain.Category, createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[channelID]; exists {
		r.log.Warn().
			Str("channel", channelID).
			Msg("session already open, overwriting and discarding cached history")
	}

	r.sessions[channelID] = &session{
		channelID:   channelID,
		channelName: channelName,
		category:    category,
		createdAt:   createdAt,
		cache:       NewCache(),
	}
	r.log.Info().
		Str("channel", channelID).
		Str("name", channelName).
		Str("category", string(category)).
		Msg("ticket session opened")
}

// SetOpener records the resolved opener identity. Resolution happens at
// most once; later calls and calls for unknown sessions are no-ops.
func (r *Registry) SetOpener(channelID string, member domain.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[channelID]
	if !ok || sess.opener != "" {
		return
	}
	sess.opener = member.DisplayName
	sess.openerID = member.ID
	r.log.Debug().
		Str("channel", channelID).
		Str("opener", member.DisplayName).
		Msg("opener resolved")
}

// ChannelName returns the live session's channel name, or "" when the
// channel has no open session.
func (r *Registry) ChannelName(channelID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[channelID]; ok {
		return sess.channelName
	}
	return ""
}

// Append adds a record to the session's cache. Unknown channel ids are
// dropped silently: that covers messages in unmonitored channels and
// the race where a message lands after the session was extracted.
func (r *Registry) Append(channelID string, rec MessageRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[channelID]; ok {
		sess.cache.Append(rec)
	}
}

// RecordClaimant appends a staff identity to the session's claimant
// list, preserving insertion order and suppressing duplicates.
func (r *Registry) RecordClaimant(channelID, display string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[channelID]
	if !ok {
		return
	}
	for _, c := range sess.claimants {
		if c == display {
			return
		}
	}
	sess.claimants = append(sess.claimants, display)
}

// CloseAndExtract atomically removes the session and returns its final
// state for transcript rendering. The second call for the same id
// returns false, which is what guarantees at most one transcript per
// ticket.
func (r *Registry) CloseAndExtract(channelID string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[channelID]
	if !ok {
		return Snapshot{}, false
	}
	delete(r.sessions, channelID)

	claimants := make([]string, len(sess.claimants))
	copy(claimants, sess.claimants)

	return Snapshot{
		ID:          uuid.New().String(),
		ChannelID:   sess.channelID,
		ChannelName: sess.channelName,
		Category:    sess.category,
		CreatedAt:   sess.createdAt,
		ClosedAt:    time.Now(),
		Opener:      sess.opener,
		OpenerID:    sess.openerID,
		Claimants:   claimants,
		Records:     sess.cache.extract(),
	}, true
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
