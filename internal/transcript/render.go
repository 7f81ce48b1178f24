// Package transcript turns a closed session's cached records into a
// durable HTML document and delivers it to the staff archive and the
// student.
package transcript

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/soyeahso/tickethelper/internal/domain"
	"github.com/soyeahso/tickethelper/internal/ticket"
)

// timestampLayout matches the original transcripts' human-readable
// timestamps.
const timestampLayout = "Jan 2, 2006 3:04 PM"

type renderMessage struct {
	Initial     string
	Author      string
	IsBot       bool
	Timestamp   string
	Content     string
	EmbedNote   string
	Attachments []domain.AttachmentRef
}

type renderData struct {
	ChannelName string
	Category    domain.Category
	TicketID    string
	Opener      string
	Staff       string
	Created     string
	Closed      string
	Messages    []renderMessage
	Count       int
}

// Render produces a self-contained HTML transcript from a session
// snapshot. Records appear in cache order; text is escaped by the
// template engine; embeds are reduced to a count placeholder.
func Render(snap ticket.Snapshot) (string, error) {
	data := renderData{
		ChannelName: snap.ChannelName,
		Category:    snap.Category,
		TicketID:    snap.ChannelID,
		Opener:      displayOr(snap.Opener, "Unknown"),
		Staff:       displayOr(strings.Join(snap.Claimants, ", "), "None"),
		Created:     snap.CreatedAt.Format(timestampLayout),
		Closed:      snap.ClosedAt.Format(timestampLayout),
		Count:       len(snap.Records),
	}

	for _, rec := range snap.Records {
		data.Messages = append(data.Messages, renderMessage{
			Initial:     authorInitial(rec.Author),
			Author:      rec.Author,
			IsBot:       rec.IsBot,
			Timestamp:   rec.Timestamp.Format(timestampLayout),
			Content:     rec.Content,
			EmbedNote:   embedNote(rec.EmbedCount),
			Attachments: rec.Attachments,
		})
	}

	var sb strings.Builder
	if err := pageTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering transcript: %w", err)
	}
	return sb.String(), nil
}

// Filename builds a collision-free artifact name for a snapshot.
func Filename(snap ticket.Snapshot) string {
	id := snap.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("transcript-%s-%s.html", snap.ChannelName, id)
}

func displayOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func authorInitial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func embedNote(n int) string {
	switch {
	case n == 0:
		return ""
	case n == 1:
		return "[1 embed]"
	default:
		return fmt.Sprintf("[%d embeds]", n)
	}
}

var pageTemplate = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Ticket Transcript - {{.ChannelName}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background: #36393f; color: #dcddde; padding: 20px; line-height: 1.6;
        }
        .container { max-width: 1200px; margin: 0 auto; background: #2f3136; border-radius: 8px; overflow: hidden; }
        .header { background: #202225; padding: 30px; border-bottom: 1px solid #202225; }
        .header h1 { color: #ffffff; font-size: 24px; margin-bottom: 15px; }
        .metadata { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 15px; margin-top: 20px; }
        .metadata-item { background: #2f3136; padding: 12px; border-radius: 4px; }
        .metadata-label { color: #b9bbbe; font-size: 12px; text-transform: uppercase; font-weight: 600; margin-bottom: 4px; }
        .metadata-value { color: #ffffff; font-size: 14px; }
        .messages { padding: 20px 30px; }
        .message { display: flex; padding: 8px 0; margin-bottom: 8px; }
        .message:hover { background: #32353b; margin: 0 -10px 8px -10px; padding: 8px 10px; border-radius: 4px; }
        .avatar {
            width: 40px; height: 40px; border-radius: 50%; background: #5865f2;
            display: flex; align-items: center; justify-content: center;
            color: white; font-weight: 600; font-size: 16px; flex-shrink: 0; margin-right: 16px;
        }
        .message-content-wrapper { flex: 1; min-width: 0; }
        .message-header { display: flex; align-items: baseline; margin-bottom: 4px; }
        .author { font-weight: 600; color: #ffffff; margin-right: 8px; }
        .bot-tag {
            background: #5865f2; color: #ffffff; font-size: 10px; font-weight: 600;
            padding: 2px 4px; border-radius: 3px; margin-right: 8px; text-transform: uppercase;
        }
        .timestamp { font-size: 12px; color: #72767d; }
        .message-text { color: #dcddde; word-wrap: break-word; white-space: pre-wrap; }
        .attachment { margin-top: 8px; padding: 8px 12px; background: #2f3136; border-left: 4px solid #5865f2; border-radius: 4px; }
        .attachment-label { color: #b9bbbe; font-size: 12px; margin-bottom: 4px; }
        .attachment-link { color: #00aff4; text-decoration: none; font-size: 14px; }
        .attachment-link:hover { text-decoration: underline; }
        .embed { margin-top: 8px; padding: 8px 12px; background: #2f3136; border-left: 4px solid #202225; border-radius: 4px; color: #b9bbbe; font-size: 13px; }
        .footer { background: #202225; padding: 20px 30px; border-top: 1px solid #202225; text-align: center; color: #72767d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>#{{.ChannelName}}</h1>
            <div class="metadata">
                <div class="metadata-item">
                    <div class="metadata-label">Category</div>
                    <div class="metadata-value">{{.Category}}</div>
                </div>
                <div class="metadata-item">
                    <div class="metadata-label">Ticket ID</div>
                    <div class="metadata-value">{{.TicketID}}</div>
                </div>
                <div class="metadata-item">
                    <div class="metadata-label">Opened By</div>
                    <div class="metadata-value">{{.Opener}}</div>
                </div>
                <div class="metadata-item">
                    <div class="metadata-label">Staff Involved</div>
                    <div class="metadata-value">{{.Staff}}</div>
                </div>
                <div class="metadata-item">
                    <div class="metadata-label">Created</div>
                    <div class="metadata-value">{{.Created}}</div>
                </div>
                <div class="metadata-item">
                    <div class="metadata-label">Closed</div>
                    <div class="metadata-value">{{.Closed}}</div>
                </div>
            </div>
        </div>

        <div class="messages">
{{- range .Messages}}
            <div class="message">
                <div class="avatar">{{.Initial}}</div>
                <div class="message-content-wrapper">
                    <div class="message-header">
                        <span class="author">{{.Author}}</span>
                        {{- if .IsBot}}<span class="bot-tag">BOT</span>{{end}}
                        <span class="timestamp">{{.Timestamp}}</span>
                    </div>
                    {{- if .Content}}
                    <div class="message-text">{{.Content}}</div>
                    {{- end}}
                    {{- if .EmbedNote}}
                    <div class="embed">{{.EmbedNote}}</div>
                    {{- end}}
                    {{- range .Attachments}}
                    <div class="attachment">
                        <div class="attachment-label">Attachment</div>
                        <a href="{{.URL}}" class="attachment-link" target="_blank">{{.Name}}</a>
                    </div>
                    {{- end}}
                </div>
            </div>
{{- end}}
        </div>

        <div class="footer">
            Transcript generated for {{.ChannelName}} &bull; {{.Count}} messages
        </div>
    </div>
</body>
</html>
`))
