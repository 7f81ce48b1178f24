package domain

import "time"

// Event is the narrow internal variant type for platform events. The
// platform adapter translates raw payloads into these at the boundary,
// so nothing past the adapter depends on SDK types.
type Event interface {
	EventKind() string
}

// ChannelOpened fires when a channel is created under a monitored
// category.
type ChannelOpened struct {
	ChannelID   string
	ChannelName string
	ParentID    string
	CreatedAt   time.Time
}

// ChannelClosed fires when a monitored channel is deleted. The channel
// and its platform-side history are gone by the time this arrives;
// Members carries the per-member access grants from the delete payload,
// the last chance to identify the student if open-time resolution
// never landed.
type ChannelClosed struct {
	ChannelID   string
	ChannelName string
	ParentID    string
	Members     []Member
}

// MessageArrived fires for every message posted in a monitored channel.
type MessageArrived struct {
	ChannelID   string
	ParentID    string
	Author      Actor
	Content     string
	Timestamp   time.Time
	Attachments []AttachmentRef
	EmbedCount  int
}

// HelpFormOpened fires when a student clicks the Request Help button;
// the expected response is showing the request form.
type HelpFormOpened struct {
	ChannelID string
	Respond   Responder
}

// HelpRequested fires when the help-request form is submitted.
type HelpRequested struct {
	ChannelID string
	ParentID  string
	Requester Actor
	Summary   string
	Attempts  string
	Respond   Responder
}

// ClaimAttempted fires when a staff member clicks Claim & Join on a
// queue post.
type ClaimAttempted struct {
	TicketID string
	Actor    Actor
	Respond  Responder
}

// CloseAttempted fires when someone clicks Close Request on a queue
// post, before or after a claim.
type CloseAttempted struct {
	TicketID string
	Actor    Actor
	Respond  Responder
}

func (ChannelOpened) EventKind() string  { return "channel-opened" }
func (ChannelClosed) EventKind() string  { return "channel-closed" }
func (MessageArrived) EventKind() string { return "message-arrived" }
func (HelpFormOpened) EventKind() string { return "help-form-opened" }
func (HelpRequested) EventKind() string  { return "help-requested" }
func (ClaimAttempted) EventKind() string { return "claim-attempted" }
func (CloseAttempted) EventKind() string { return "close-attempted" }
