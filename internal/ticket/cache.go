package ticket

import (
	"time"

	"github.com/soyeahso/tickethelper/internal/domain"
)

// MessageRecord is an immutable snapshot of one chat message, captured
// at arrival. Once appended to a cache it is never mutated or removed;
// after the originating channel is destroyed, the cache is the only
// remaining copy of the conversation.
type MessageRecord struct {
	Author      string
	IsBot       bool
	Timestamp   time.Time
	Content     string
	Attachments []domain.AttachmentRef
	EmbedCount  int
}

// Cache is a per-session append-only buffer of message records. Append
// order is the platform's delivery order: the cache records, it does
// not re-sequence.
type Cache struct {
	records []MessageRecord
}

// NewCache creates an empty message cache.
func NewCache() *Cache {
	return &Cache{}
}

// Append adds a record to the end of the buffer.
func (c *Cache) Append(rec MessageRecord) {
	c.records = append(c.records, rec)
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	return len(c.records)
}

// extract returns a copy of the records in append order.
func (c *Cache) extract() []MessageRecord {
	out := make([]MessageRecord, len(c.records))
	copy(out, c.records)
	return out
}
