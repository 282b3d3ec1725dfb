package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridianlabs/atlasq/internal/kv"
)

// memStore is an in-memory kv.Store for tests.
type memStore struct {
	data    map[string][]byte
	failSet bool
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (m *memStore) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(key string, value []byte) error {
	if m.failSet {
		return errors.New("disk full")
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(key string) error { delete(m.data, key); return nil }
func (m *memStore) Close() error            { return nil }

func frozenClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAppendDedupesAgainstTailOnly(t *testing.T) {
	s := NewStore(newMemStore(), nil)

	assert.True(t, s.Append("atlas-2021", "termination rights"))
	assert.False(t, s.Append("atlas-2021", "termination rights"))
	assert.Equal(t, 1, s.Len())

	// A distinct pair appends, and the earlier duplicate may then recur.
	assert.True(t, s.Append("atlas-2021", "change of control"))
	assert.True(t, s.Append("atlas-2021", "termination rights"))
	assert.Equal(t, 3, s.Len())
}

func TestAppendDifferentDealSameQuery(t *testing.T) {
	s := NewStore(newMemStore(), nil)

	assert.True(t, s.Append("atlas-2021", "indemnity"))
	assert.True(t, s.Append("meridian-2023", "indemnity"))
	assert.Equal(t, 2, s.Len())
}

func TestTimestampsUniqueUnderFrozenClock(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s := NewStore(newMemStore(), nil, WithClock(frozenClock(now)))

	s.Append("atlas-2021", "q1")
	s.Append("atlas-2021", "q2")
	s.Append("atlas-2021", "q3")

	entries := s.All()
	require.Len(t, entries, 3)
	assert.True(t, entries[1].Timestamp.After(entries[0].Timestamp))
	assert.True(t, entries[2].Timestamp.After(entries[1].Timestamp))
}

func TestRemoveByTimestamp(t *testing.T) {
	s := NewStore(newMemStore(), nil)
	s.Append("atlas-2021", "q1")
	s.Append("atlas-2021", "q2")

	ts := s.All()[0].Timestamp
	assert.True(t, s.Remove(ts))
	assert.Equal(t, 1, s.Len())
	for _, e := range s.All() {
		assert.False(t, e.Timestamp.Equal(ts))
	}

	// Second removal of the same key is a no-op.
	assert.False(t, s.Remove(ts))
	assert.Equal(t, 1, s.Len())
}

func TestClear(t *testing.T) {
	s := NewStore(newMemStore(), nil)
	s.Append("atlas-2021", "q1")
	s.Append("atlas-2021", "q2")

	s.Clear()
	assert.Zero(t, s.Len())
}

func TestSearch(t *testing.T) {
	s := NewStore(newMemStore(), nil)
	s.Append("atlas-2021", "Termination rights")
	s.Append("meridian-2023", "payment schedule")
	s.Append("atlas-2021", "escrow release")

	// Case-insensitive match on query text.
	got := s.Search("TERMINATION")
	require.Len(t, got, 1)
	assert.Equal(t, "Termination rights", got[0].Query)

	// Match on deal id.
	got = s.Search("meridian")
	require.Len(t, got, 1)
	assert.Equal(t, "payment schedule", got[0].Query)

	// Empty term returns everything in stored order.
	got = s.Search("")
	require.Len(t, got, 3)
	assert.Equal(t, "Termination rights", got[0].Query)
	assert.Equal(t, "escrow release", got[2].Query)

	assert.Empty(t, s.Search("no-such-term"))
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	fs, err := kv.NewFileStore(path)
	require.NoError(t, err)

	s := NewStore(fs, nil)
	s.Append("atlas-2021", "q1")
	s.Append("meridian-2023", "q2")
	want := s.All()

	// Reopen from disk, simulating a process restart.
	reopened, err := kv.NewFileStore(path)
	require.NoError(t, err)
	s2 := NewStore(reopened, nil)

	got := s2.All()
	require.Len(t, got, 2)
	for i := range want {
		assert.Equal(t, want[i].Deal, got[i].Deal)
		assert.Equal(t, want[i].Query, got[i].Query)
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp))
	}
}

func TestMalformedPersistedHistoryStartsEmpty(t *testing.T) {
	m := newMemStore()
	m.data[StorageKey] = []byte(`{"oops": true`)

	s := NewStore(m, nil)
	assert.Zero(t, s.Len())
}

func TestAppendAfterRestartStaysMonotonic(t *testing.T) {
	m := newMemStore()
	old := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) // persisted clock ahead of ours
	s := NewStore(m, nil, WithClock(frozenClock(old)))
	s.Append("atlas-2021", "q1")

	s2 := NewStore(m, nil, WithClock(frozenClock(old.Add(-time.Hour))))
	s2.Append("atlas-2021", "q2")

	entries := s2.All()
	require.Len(t, entries, 2)
	assert.True(t, entries[1].Timestamp.After(entries[0].Timestamp))
}

func TestPersistFailureIsNonFatal(t *testing.T) {
	m := newMemStore()
	m.failSet = true

	s := NewStore(m, nil)
	assert.True(t, s.Append("atlas-2021", "q1"))
	assert.Equal(t, 1, s.Len())
}
