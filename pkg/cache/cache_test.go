package cache //nolint:testpackage // stubs the clock.

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()

	c, err := New(t.TempDir(), ttl)
	require.NoError(t, err)

	return c
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Hour)

	require.NoError(t, c.Set("repo:issues", payload{Name: "issues", Count: 42}))

	var got payload
	require.True(t, c.Get("repo:issues", &got))
	assert.Equal(t, payload{Name: "issues", Count: 42}, got)
}

func TestGetMissesAbsentKey(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Hour)

	var got payload
	assert.False(t, c.Get("nothing", &got))
}

func TestGetSurvivesRestart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	first, err := New(dir, time.Hour)
	require.NoError(t, err)
	require.NoError(t, first.Set("key", payload{Name: "persisted"}))

	second, err := New(dir, time.Hour)
	require.NoError(t, err)

	var got payload
	require.True(t, second.Get("key", &got))
	assert.Equal(t, "persisted", got.Name)
}

func TestGetMissesExpiredEntry(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Hour)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	require.NoError(t, c.Set("key", payload{Name: "old"}))

	c.now = func() time.Time { return base.Add(2 * time.Hour) }

	var got payload
	assert.False(t, c.Get("key", &got), "memory layer honors TTL")

	// A fresh instance reads from disk and must also miss.
	fresh, err := New(c.dir, time.Hour)
	require.NoError(t, err)

	fresh.now = c.now
	assert.False(t, fresh.Get("key", &got))
}

func TestZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, 0)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	require.NoError(t, c.Set("key", payload{Name: "eternal"}))

	c.now = func() time.Time { return base.AddDate(10, 0, 0) }

	var got payload
	assert.True(t, c.Get("key", &got))
}

func TestCorruptEntryIsRemoved(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Hour)

	require.NoError(t, c.Set("key", payload{Name: "fine"}))

	path := c.path("key")
	require.NoError(t, os.WriteFile(path, []byte("not a cache file"), 0o644))

	// Bypass the memory layer to force the disk read.
	c.mem = map[string]entry{}

	var got payload
	assert.False(t, c.Get("key", &got))
	assert.NoFileExists(t, path)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Hour)

	require.NoError(t, c.Set("key", payload{Name: "doomed"}))
	require.NoError(t, c.Delete("key"))

	var got payload
	assert.False(t, c.Get("key", &got))

	require.NoError(t, c.Delete("key"), "double delete is fine")
}

func TestClearAndStats(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, time.Hour)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	require.NoError(t, c.Set("old", payload{Name: "old"}))

	c.now = func() time.Time { return base.Add(50 * time.Minute) }
	require.NoError(t, c.Set("fresh", payload{Name: "fresh"}))

	c.now = func() time.Time { return base.Add(70 * time.Minute) }

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Entries: 2, Live: 1, Expired: 1}, stats)

	require.NoError(t, c.Clear())

	stats, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	var got payload
	assert.False(t, c.Get("fresh", &got))
}

func TestEncodeBlobRoundTrip(t *testing.T) {
	t.Parallel()

	stored := entry{
		StoredAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Value:    json.RawMessage(`{"text":"` + strings.Repeat("abcdef ", 200) + `"}`),
	}

	blob, err := json.Marshal(stored)
	require.NoError(t, err)

	encoded := encodeBlob(blob)
	assert.Less(t, len(encoded), len(blob), "repetitive payload compresses")

	decoded, err := decodeEntry(encoded)
	require.NoError(t, err)
	assert.True(t, stored.StoredAt.Equal(decoded.StoredAt))
	assert.True(t, bytes.Equal(stored.Value, decoded.Value))
}

func TestDecodeEntryRejectsGarbage(t *testing.T) {
	t.Parallel()

	cases := [][]byte{
		nil,
		[]byte("short"),
		[]byte("XXXX\x01\x10\x00\x00\x00payload"),
		append(append([]byte("GGC1"), 9), []byte("\x10\x00\x00\x00junk")...),
	}

	for _, raw := range cases {
		_, err := decodeEntry(raw)
		assert.ErrorIs(t, err, errCorrupt)
	}
}
