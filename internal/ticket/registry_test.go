package ticket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/soyeahso/tickethelper/internal/domain"
	"github.com/soyeahso/tickethelper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *Registry {
	return NewRegistry(logging.New(nil, "silent"))
}

func record(content string) MessageRecord {
	return MessageRecord{
		Author:    "student#1234",
		Timestamp: time.Now(),
		Content:   content,
	}
}

func TestCacheFidelity(t *testing.T) {
	r := newRegistry()
	r.Open("ch1", "ticket-0001", domain.CategoryOnline, time.Now())

	const n = 50
	for i := 0; i < n; i++ {
		r.Append("ch1", record(fmt.Sprintf("message %d", i)))
	}

	snap, ok := r.CloseAndExtract("ch1")
	require.True(t, ok)
	require.Len(t, snap.Records, n)
	for i, rec := range snap.Records {
		assert.Equal(t, fmt.Sprintf("message %d", i), rec.Content)
	}
}

func TestCloseAndExtractIsAtMostOnce(t *testing.T) {
	r := newRegistry()
	r.Open("ch1", "ticket-0001", domain.CategoryOnline, time.Now())
	r.Append("ch1", record("hi"))

	_, ok := r.CloseAndExtract("ch1")
	require.True(t, ok)

	_, ok = r.CloseAndExtract("ch1")
	assert.False(t, ok, "second extraction must report not found")
}

func TestAppendAfterCloseIsDropped(t *testing.T) {
	r := newRegistry()
	r.Open("ch1", "ticket-0001", domain.CategoryOnline, time.Now())

	_, ok := r.CloseAndExtract("ch1")
	require.True(t, ok)

	// Late message for an already-extracted channel must not resurrect
	// any state.
	r.Append("ch1", record("too late"))
	_, ok = r.CloseAndExtract("ch1")
	assert.False(t, ok)
}

func TestAppendToUnknownChannelIsNoop(t *testing.T) {
	r := newRegistry()
	r.Append("nope", record("ignored"))
	assert.Zero(t, r.Len())
}

func TestDuplicateOpenOverwrites(t *testing.T) {
	r := newRegistry()
	r.Open("ch1", "ticket-0001", domain.CategoryOnline, time.Now())
	r.Append("ch1", record("before"))

	r.Open("ch1", "ticket-0001", domain.CategoryInPerson, time.Now())

	snap, ok := r.CloseAndExtract("ch1")
	require.True(t, ok)
	assert.Empty(t, snap.Records, "overwrite discards the earlier cache")
	assert.Equal(t, domain.CategoryInPerson, snap.Category)
}

func TestSetOpenerResolvesOnce(t *testing.T) {
	r := newRegistry()
	r.Open("ch1", "ticket-0001", domain.CategoryOnline, time.Now())

	r.SetOpener("ch1", domain.Member{ID: "u1", DisplayName: "alice#0001"})
	r.SetOpener("ch1", domain.Member{ID: "u2", DisplayName: "bob#0002"})

	snap, ok := r.CloseAndExtract("ch1")
	require.True(t, ok)
	assert.Equal(t, "alice#0001", snap.Opener)
	assert.Equal(t, "u1", snap.OpenerID)
}

func TestRecordClaimantOrderedSet(t *testing.T) {
	r := newRegistry()
	r.Open("ch1", "ticket-0001", domain.CategoryOnline, time.Now())

	r.RecordClaimant("ch1", "ta-one")
	r.RecordClaimant("ch1", "ta-two")
	r.RecordClaimant("ch1", "ta-one")

	snap, ok := r.CloseAndExtract("ch1")
	require.True(t, ok)
	assert.Equal(t, []string{"ta-one", "ta-two"}, snap.Claimants)
}

func TestSnapshotHasUniqueID(t *testing.T) {
	r := newRegistry()
	r.Open("ch1", "same-name", domain.CategoryOnline, time.Now())
	r.Open("ch2", "same-name", domain.CategoryOnline, time.Now())

	s1, ok := r.CloseAndExtract("ch1")
	require.True(t, ok)
	s2, ok := r.CloseAndExtract("ch2")
	require.True(t, ok)
	assert.NotEqual(t, s1.ID, s2.ID)
}

func TestConcurrentAppendsAllRecorded(t *testing.T) {
	r := newRegistry()
	r.Open("ch1", "ticket-0001", domain.CategoryOnline, time.Now())

	var wg sync.WaitGroup
	const n = 100
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Append("ch1", record(fmt.Sprintf("m%d", i)))
		}(i)
	}
	wg.Wait()

	snap, ok := r.CloseAndExtract("ch1")
	require.True(t, ok)
	assert.Len(t, snap.Records, n)
}
