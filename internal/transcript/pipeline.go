package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/soyeahso/tickethelper/internal/domain"
	"github.com/soyeahso/tickethelper/internal/logging"
	"github.com/soyeahso/tickethelper/internal/ticket"
)

const colorArchive = 0x2ecc71

// Result reports what the pipeline managed to deliver.
type Result struct {
	Rendered bool
	Link     string
	Archived bool
	DMSent   bool
}

// Pipeline renders, publishes, and delivers transcripts for closed
// sessions. Each delivery step is independent: a failure in one is
// logged and never blocks the others.
type Pipeline struct {
	sink           domain.Sink
	publisher      *Publisher
	archiveChannel string
	log            *logging.Logger
}

// NewPipeline creates a transcript pipeline delivering to the given
// archive channel.
func NewPipeline(sink domain.Sink, publisher *Publisher, archiveChannel string, log *logging.Logger) *Pipeline {
	return &Pipeline{
		sink:           sink,
		publisher:      publisher,
		archiveChannel: archiveChannel,
		log:            log.Sub("transcript"),
	}
}

// Generate produces and delivers the transcript for one closed session.
// Sessions with zero cached messages produce nothing at all: channels
// deleted before any conversation are not worth archiving.
func (p *Pipeline) Generate(ctx context.Context, snap ticket.Snapshot) Result {
	var res Result

	if len(snap.Records) == 0 {
		p.log.Info().
			Str("channel", snap.ChannelID).
			Msg("no cached messages, skipping transcript")
		return res
	}

	html, err := Render(snap)
	if err != nil {
		p.log.Error().Err(err).Str("channel", snap.ChannelID).Msg("transcript rendering failed")
		return res
	}
	res.Rendered = true
	filename := Filename(snap)

	link, err := p.publisher.Publish(ctx, filename, html)
	if err != nil {
		p.log.Warn().Err(err).Str("channel", snap.ChannelID).Msg("gist publish failed, transcript will be download-only")
	}
	res.Link = link

	if err := p.deliverToArchive(ctx, snap, filename, html, link); err != nil {
		p.log.Error().Err(err).Str("channel", snap.ChannelID).Msg("archive delivery failed")
	} else {
		res.Archived = true
	}

	if snap.OpenerID == "" {
		p.log.Debug().Str("channel", snap.ChannelID).Msg("opener unresolved, skipping transcript DM")
	} else if err := p.deliverToStudent(ctx, snap, filename, html, link); err != nil {
		p.log.Warn().Err(err).
			Str("channel", snap.ChannelID).
			Str("student", snap.OpenerID).
			Msg("could not DM transcript to student")
	} else {
		res.DMSent = true
	}

	p.log.Info().
		Str("channel", snap.ChannelID).
		Int("messages", len(snap.Records)).
		Bool("webView", link != "").
		Msg("transcript saved")
	return res
}

func (p *Pipeline) deliverToArchive(ctx context.Context, snap ticket.Snapshot, filename, html, link string) error {
	staff := strings.Join(snap.Claimants, ", ")
	if staff == "" {
		staff = "None (student worked independently)"
	}

	embed := domain.Embed{
		Title: fmt.Sprintf("📄 Ticket Transcript — %s", snap.ChannelName),
		Color: colorArchive,
		Fields: []domain.EmbedField{
			{Name: "Category", Value: string(snap.Category), Inline: true},
			{Name: "Ticket ID", Value: snap.ChannelID, Inline: true},
			{Name: "Opened by", Value: displayOr(snap.Opener, "Unknown"), Inline: true},
			{Name: "Student ID", Value: displayOr(snap.OpenerID, "Unknown"), Inline: true},
			{Name: "Staff involved", Value: staff},
			{Name: "Messages", Value: fmt.Sprintf("%d messages", len(snap.Records)), Inline: true},
		},
		Timestamp: true,
	}

	msg := domain.Message{
		Embed:   &embed,
		Files:   []domain.File{{Name: filename, Data: []byte(html)}},
		Buttons: viewButton(link),
	}
	_, err := p.sink.SendMessage(ctx, p.archiveChannel, msg)
	return err
}

func (p *Pipeline) deliverToStudent(ctx context.Context, snap ticket.Snapshot, filename, html, link string) error {
	embed := domain.Embed{
		Title:       "📄 Your Ticket Transcript",
		Description: fmt.Sprintf("Your ticket **%s** has been closed. Here's your transcript:", snap.ChannelName),
		Color:       colorArchive,
		Timestamp:   true,
	}

	msg := domain.Message{
		Embed:   &embed,
		Files:   []domain.File{{Name: filename, Data: []byte(html)}},
		Buttons: viewButton(link),
	}
	return p.sink.SendDirect(ctx, snap.OpenerID, msg)
}

// viewButton returns a single link control when a web view exists.
func viewButton(link string) []domain.Button {
	if link == "" {
		return nil
	}
	return []domain.Button{{
		Label: "View in Browser",
		Style: domain.ButtonLink,
		Emoji: "🌐",
		URL:   link,
	}}
}
