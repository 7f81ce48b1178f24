package transcript

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/soyeahso/tickethelper/internal/domain"
	"github.com/soyeahso/tickethelper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// archiveSink is a test double for domain.Sink.
type archiveSink struct {
	mu        sync.Mutex
	sent      []domain.Message
	sentTo    []string
	directs   []domain.Message
	directTo  []string
	directErr error
}

func (s *archiveSink) SendMessage(_ context.Context, channelID string, msg domain.Message) (domain.MessageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	s.sentTo = append(s.sentTo, channelID)
	return domain.MessageRef{ChannelID: channelID, MessageID: "m1"}, nil
}

func (s *archiveSink) EditMessage(_ context.Context, _ domain.MessageRef, _ domain.Message) error {
	return nil
}

func (s *archiveSink) PinMessage(_ context.Context, _ domain.MessageRef) error { return nil }

func (s *archiveSink) SendDirect(_ context.Context, userID string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.directErr != nil {
		return s.directErr
	}
	s.directs = append(s.directs, msg)
	s.directTo = append(s.directTo, userID)
	return nil
}

func (s *archiveSink) GrantChannelAccess(_ context.Context, _, _ string) error { return nil }

func (s *archiveSink) ChannelMembers(_ context.Context, _ string) ([]domain.Member, error) {
	return nil, nil
}

func testLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func newTestPipeline(sink *archiveSink) *Pipeline {
	return NewPipeline(sink, NewPublisher("", testLog()), "archive-chan", testLog())
}

func TestEmptySessionProducesNothing(t *testing.T) {
	sink := &archiveSink{}
	p := newTestPipeline(sink)

	snap := sampleSnapshot()
	snap.Records = nil

	res := p.Generate(context.Background(), snap)
	assert.False(t, res.Rendered)
	assert.False(t, res.Archived)
	assert.False(t, res.DMSent)
	assert.Empty(t, sink.sent)
	assert.Empty(t, sink.directs)
}

func TestGenerateDeliversArchiveAndDM(t *testing.T) {
	sink := &archiveSink{}
	p := newTestPipeline(sink)

	res := p.Generate(context.Background(), sampleSnapshot())
	assert.True(t, res.Rendered)
	assert.True(t, res.Archived)
	assert.True(t, res.DMSent)
	assert.Empty(t, res.Link, "no publisher token, download-only")

	require.Len(t, sink.sent, 1)
	assert.Equal(t, "archive-chan", sink.sentTo[0])
	archive := sink.sent[0]
	require.NotNil(t, archive.Embed)
	assert.Contains(t, archive.Embed.Title, "ticket-0042")
	require.Len(t, archive.Files, 1)
	assert.Contains(t, archive.Files[0].Name, "transcript-ticket-0042")
	assert.Empty(t, archive.Buttons, "no view button without a link")

	var messagesField string
	for _, f := range archive.Embed.Fields {
		if f.Name == "Messages" {
			messagesField = f.Value
		}
	}
	assert.Equal(t, "3 messages", messagesField)

	require.Len(t, sink.directs, 1)
	assert.Equal(t, "u-alice", sink.directTo[0])
	require.Len(t, sink.directs[0].Files, 1)
}

func TestDMSkippedWhenOpenerUnresolved(t *testing.T) {
	sink := &archiveSink{}
	p := newTestPipeline(sink)

	snap := sampleSnapshot()
	snap.Opener = ""
	snap.OpenerID = ""

	res := p.Generate(context.Background(), snap)
	assert.True(t, res.Archived)
	assert.False(t, res.DMSent)
	assert.Empty(t, sink.directs)
}

func TestDMFailureDoesNotUndoArchive(t *testing.T) {
	sink := &archiveSink{directErr: errors.New("user has DMs disabled")}
	p := newTestPipeline(sink)

	res := p.Generate(context.Background(), sampleSnapshot())
	assert.True(t, res.Archived)
	assert.False(t, res.DMSent)
	require.Len(t, sink.sent, 1)
}

func TestGenerateAttachesViewLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"files":{"t.html":{"raw_url":"https://gist.example/raw/t.html"}}}`))
	}))
	defer srv.Close()

	sink := &archiveSink{}
	pub := NewPublisher("test-token", testLog())
	pub.apiURL = srv.URL
	p := NewPipeline(sink, pub, "archive-chan", testLog())

	res := p.Generate(context.Background(), sampleSnapshot())
	assert.Equal(t, "https://htmlpreview.github.io/?https://gist.example/raw/t.html", res.Link)

	require.Len(t, sink.sent, 1)
	require.Len(t, sink.sent[0].Buttons, 1)
	assert.Equal(t, domain.ButtonLink, sink.sent[0].Buttons[0].Style)
	assert.Equal(t, res.Link, sink.sent[0].Buttons[0].URL)
}

func TestPublishFailureDegradesToNoLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	sink := &archiveSink{}
	pub := NewPublisher("bad-token", testLog())
	pub.apiURL = srv.URL
	pub.client.RetryMax = 0
	p := NewPipeline(sink, pub, "archive-chan", testLog())

	res := p.Generate(context.Background(), sampleSnapshot())
	assert.Empty(t, res.Link)
	assert.True(t, res.Archived, "delivery continues without the link")
	assert.True(t, res.DMSent)
}

func TestPublisherDisabledWithoutToken(t *testing.T) {
	pub := NewPublisher("", testLog())
	assert.False(t, pub.Enabled())

	link, err := pub.Publish(context.Background(), "t.html", "<html></html>")
	assert.NoError(t, err)
	assert.Empty(t, link)
}
