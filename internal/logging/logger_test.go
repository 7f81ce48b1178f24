package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")

	log.Sub("queue").Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, `"component":"queue"`)
	assert.Contains(t, out, "hello")
}

func TestNewWithFileWritesJSONToFile(t *testing.T) {
	var file bytes.Buffer
	log := NewWithFile(&file, "info")

	log.Sub("routing").Info().Str("channel", "t1").Msg("ticket session opened")

	out := file.String()
	assert.Contains(t, out, `"component":"routing"`)
	assert.Contains(t, out, `"channel":"t1"`)
	assert.Contains(t, out, "ticket session opened")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestSilentLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "silent")

	log.Error().Msg("nothing")
	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "nonsense")

	log.Debug().Msg("dropped")
	log.Info().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
