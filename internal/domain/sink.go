package domain

import "context"

// Sink is the outbound command surface of the chat platform. Every call
// is a fallible remote operation; callers treat failures as non-fatal
// and log them.
type Sink interface {
	// SendMessage posts a message to a channel and returns its handle.
	SendMessage(ctx context.Context, channelID string, msg Message) (MessageRef, error)

	// EditMessage replaces the embed and controls of a previously sent
	// message.
	EditMessage(ctx context.Context, ref MessageRef, msg Message) error

	// PinMessage pins a previously sent message in its channel.
	PinMessage(ctx context.Context, ref MessageRef) error

	// SendDirect delivers a message to a user's DM channel.
	SendDirect(ctx context.Context, userID string, msg Message) error

	// GrantChannelAccess gives a user read/write access to a channel.
	GrantChannelAccess(ctx context.Context, channelID, userID string) error

	// ChannelMembers resolves the members granted per-member access to
	// a channel, in the platform's permission-overwrite order.
	ChannelMembers(ctx context.Context, channelID string) ([]Member, error)
}

// Responder answers the interaction that triggered an event. It is
// valid only for the lifetime of that interaction.
type Responder interface {
	// Ephemeral sends a reply visible only to the interacting actor.
	Ephemeral(ctx context.Context, content string) error

	// UpdateMessage rewrites the message the interacted control sits on.
	UpdateMessage(ctx context.Context, msg Message) error

	// ShowHelpForm presents the help-request form for a ticket.
	ShowHelpForm(ctx context.Context, ticketID string) error
}
