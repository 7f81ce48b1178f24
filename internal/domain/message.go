package domain

// AttachmentRef points at a file attached to a chat message.
type AttachmentRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MessageRef is an opaque handle to a message the bot has sent, stable
// enough to edit or pin it later.
type MessageRef struct {
	ChannelID string `json:"channelId"`
	MessageID string `json:"messageId"`
}

// ButtonStyle selects the visual treatment of a button control.
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
	ButtonLink
)

// Button is an interactive control attached to an outbound message.
// Link buttons carry a URL instead of an ID.
type Button struct {
	ID       string
	Label    string
	Style    ButtonStyle
	Emoji    string
	URL      string
	Disabled bool
}

// EmbedField is one name/value pair inside an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich content block on an outbound message.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	Timestamp   bool
}

// File is a binary attachment on an outbound message.
type File struct {
	Name string
	Data []byte
}

// Message is the platform-neutral shape of everything the bot sends:
// plain text, embeds, button rows, and file attachments.
type Message struct {
	Content string
	Embed   *Embed
	Buttons []Button
	Files   []File
}

// Member is a resolved guild member granted access to a channel.
type Member struct {
	ID          string
	DisplayName string
	IsBot       bool
}
