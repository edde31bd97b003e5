package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers"
)

// DefaultSessionTTL is how long a session lives before Sweep removes it.
const DefaultSessionTTL = time.Hour

// Conversation is the handle a session owns: one ongoing exchange with the model.
type Conversation interface {
	Send(ctx context.Context, text string) (*providers.CompletionResponse, error)
}

// SessionStore maps session ids to conversations. Ids are the Unix
// millisecond creation time, so they double as the expiry timestamp. They
// are predictable and must not be treated as credentials.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Conversation
	ttl      time.Duration
	now      func() time.Time
	lastID   int64
}

// SessionStoreOption customizes a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) SessionStoreOption {
	return func(s *SessionStore) { s.now = now }
}

// NewSessionStore creates an empty store. A non-positive ttl means DefaultSessionTTL.
func NewSessionStore(ttl time.Duration, opts ...SessionStoreOption) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &SessionStore{
		sessions: make(map[string]Conversation),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores conv under a fresh id and returns the id.
func (s *SessionStore) Create(conv Conversation) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ids never repeat, even when two sessions start in the same millisecond.
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	key := strconv.FormatInt(id, 10)
	s.sessions[key] = conv
	return key
}

// Get returns the conversation for id, if it is still stored.
func (s *SessionStore) Get(id string) (Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.sessions[id]
	return conv, ok
}

// Sweep removes every session created more than the TTL before now and
// returns how many were removed.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.ttl).UnixMilli()
	removed := 0
	for id := range s.sessions {
		created, err := strconv.ParseInt(id, 10, 64)
		if err != nil || created < cutoff {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of stored sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// IDs returns the stored session ids, oldest first.
func (s *SessionStore) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
	return ids
}

// TTL returns the configured session lifetime.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}
