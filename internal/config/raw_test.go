package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigPath(t *testing.T) {
	path, err := ParseConfigPath("tickets.queueChannel")
	require.NoError(t, err)
	assert.Equal(t, []string{"tickets", "queueChannel"}, path)

	_, err = ParseConfigPath("")
	assert.Error(t, err)

	_, err = ParseConfigPath("tickets..queueChannel")
	assert.Error(t, err)
}

func TestParseConfigPathBlocksCredentials(t *testing.T) {
	_, err := ParseConfigPath("discord.token")
	assert.Error(t, err)

	_, err = ParseConfigPath("transcripts.gistToken")
	assert.Error(t, err)
}

func TestGetSetUnsetValueAtPath(t *testing.T) {
	raw := map[string]any{}

	SetValueAtPath(raw, []string{"tickets", "queueChannel"}, "c-queue")
	val, ok := GetValueAtPath(raw, []string{"tickets", "queueChannel"})
	require.True(t, ok)
	assert.Equal(t, "c-queue", val)

	_, ok = GetValueAtPath(raw, []string{"tickets", "missing"})
	assert.False(t, ok)

	assert.True(t, UnsetValueAtPath(raw, []string{"tickets", "queueChannel"}))
	assert.False(t, UnsetValueAtPath(raw, []string{"tickets", "queueChannel"}))
}

func TestLoadRawMissingFile(t *testing.T) {
	raw, err := LoadRaw(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestSaveRawRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveRaw(path, map[string]any{
		"discord": map[string]any{"guildId": "g1"},
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := LoadRaw(path)
	require.NoError(t, err)
	val, ok := GetValueAtPath(raw, []string{"discord", "guildId"})
	require.True(t, ok)
	assert.Equal(t, "g1", val)
}
