package transcript

import (
	"strings"
	"testing"
	"time"

	"github.com/soyeahso/tickethelper/internal/domain"
	"github.com/soyeahso/tickethelper/internal/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() ticket.Snapshot {
	base := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)
	return ticket.Snapshot{
		ID:          "0123456789abcdef",
		ChannelID:   "ch-1",
		ChannelName: "ticket-0042",
		Category:    domain.CategoryOnline,
		CreatedAt:   base,
		ClosedAt:    base.Add(time.Hour),
		Opener:      "alice#0001",
		OpenerID:    "u-alice",
		Claimants:   []string{"ta-one"},
		Records: []ticket.MessageRecord{
			{Author: "alice#0001", Timestamp: base, Content: "hi"},
			{Author: "helperbot", IsBot: true, Timestamp: base.Add(time.Minute), Content: "", EmbedCount: 2},
			{
				Author:      "ta-one",
				Timestamp:   base.Add(2 * time.Minute),
				Content:     "try <script>alert(1)</script>",
				Attachments: []domain.AttachmentRef{{Name: "notes.txt", URL: "https://cdn.example/notes.txt"}},
			},
		},
	}
}

func TestRenderContainsMetadataAndMessages(t *testing.T) {
	html, err := Render(sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, html, "#ticket-0042")
	assert.Contains(t, html, "Online")
	assert.Contains(t, html, "alice#0001")
	assert.Contains(t, html, "ta-one")
	assert.Contains(t, html, "Mar 14, 2026 3:09 PM")
	assert.Contains(t, html, "3 messages")
}

func TestRenderPreservesOrder(t *testing.T) {
	html, err := Render(sampleSnapshot())
	require.NoError(t, err)

	first := strings.Index(html, ">hi<")
	second := strings.Index(html, "[2 embeds]")
	third := strings.Index(html, "notes.txt")
	require.Greater(t, first, 0)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestRenderEscapesContent(t *testing.T) {
	html, err := Render(sampleSnapshot())
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderMarksBots(t *testing.T) {
	html, err := Render(sampleSnapshot())
	require.NoError(t, err)
	assert.Contains(t, html, `<span class="bot-tag">BOT</span>`)
}

func TestRenderUnknownFallbacks(t *testing.T) {
	snap := sampleSnapshot()
	snap.Opener = ""
	snap.Claimants = nil

	html, err := Render(snap)
	require.NoError(t, err)
	assert.Contains(t, html, "Unknown")
	assert.Contains(t, html, ">None<")
}

func TestFilename(t *testing.T) {
	name := Filename(sampleSnapshot())
	assert.Equal(t, "transcript-ticket-0042-01234567.html", name)
}

func TestAuthorInitial(t *testing.T) {
	assert.Equal(t, "A", authorInitial("alice"))
	assert.Equal(t, "Ü", authorInitial("über#1"))
	assert.Equal(t, "?", authorInitial(""))
}
