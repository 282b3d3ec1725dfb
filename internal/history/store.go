// Package history maintains the persisted record of past (deal, query)
// submissions: append with tail dedup, delete by timestamp, search, and
// recency grouping for the sidebar.
package history

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/veridianlabs/atlasq/internal/kv"
)

// StorageKey is the fixed key the serialized entry list lives under.
const StorageKey = "veridian-history"

// Entry is one past submission. Timestamp doubles as the entry's unique
// key; entries are never mutated after creation.
type Entry struct {
	Deal      string    `json:"deal"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// Store holds the in-memory entry list and mirrors every mutation to
// the backing kv store. Persistence failures degrade to in-memory only;
// they are logged, never surfaced.
type Store struct {
	mu      sync.Mutex
	kv      kv.Store
	log     *zap.Logger
	now     func() time.Time
	entries []Entry
	last    time.Time // highest timestamp handed out, for monotonicity
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore loads the persisted history from store. Absent or malformed
// content starts the history empty; initialization never fails.
func NewStore(store kv.Store, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{kv: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		s.log.Warn("failed to read persisted history, starting empty", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.log.Warn("persisted history is malformed, starting empty", zap.Error(err))
		return
	}
	s.entries = entries
	for _, e := range entries {
		if e.Timestamp.After(s.last) {
			s.last = e.Timestamp
		}
	}
}

// Append records a submission. It is skipped when (deal, query) equals
// the current tail entry, so rapid repeat submissions don't stack;
// older duplicates are left alone. Reports whether an entry was added.
func (s *Store) Append(deal, query string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.entries); n > 0 {
		tail := s.entries[n-1]
		if tail.Deal == deal && tail.Query == query {
			return false
		}
	}

	ts := s.now()
	// Timestamps are the identity of an entry; force them strictly
	// increasing even under a frozen or coarse clock.
	if !ts.After(s.last) {
		ts = s.last.Add(time.Millisecond)
	}
	s.last = ts

	s.entries = append(s.entries, Entry{Deal: deal, Query: query, Timestamp: ts})
	s.persist()
	return true
}

// Remove deletes the entry with the given timestamp. No-op if absent.
func (s *Store) Remove(ts time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.Timestamp.Equal(ts) {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.persist()
			return true
		}
	}
	return false
}

// Clear deletes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.persist()
}

// All returns the entries in stored (append) order.
func (s *Store) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Search returns the entries whose query text or deal id contains term,
// case-insensitively, preserving stored order. An empty term returns
// everything.
func (s *Store) Search(term string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if term == "" {
		out := make([]Entry, len(s.entries))
		copy(out, s.entries)
		return out
	}

	needle := strings.ToLower(term)
	var out []Entry
	for _, e := range s.entries {
		haystack := strings.ToLower(e.Query + e.Deal)
		if strings.Contains(haystack, needle) {
			out = append(out, e)
		}
	}
	return out
}

// persist serializes the full list synchronously. Caller holds s.mu.
func (s *Store) persist() {
	raw, err := json.Marshal(s.entries)
	if err != nil {
		s.log.Warn("failed to marshal history", zap.Error(err))
		return
	}
	if err := s.kv.Set(StorageKey, raw); err != nil {
		s.log.Warn("failed to persist history", zap.Error(err))
	}
}
