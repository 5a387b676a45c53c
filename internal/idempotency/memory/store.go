package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dejobratic/storefront/internal/orders/ports"
)

type entry struct {
	response ports.StoredResponse
	savedAt  time.Time
}

// Store retains submission responses so a retried order replays instead of
// placing a second order. Entries older than the retention window are
// treated as unused.
type Store struct {
	mu        sync.Mutex
	items     map[string]entry
	retention time.Duration
	now       func() time.Time
}

// NewStore creates an in-memory idempotency store. A zero retention keeps
// entries forever.
func NewStore(retention time.Duration) *Store {
	return &Store{
		items:     make(map[string]entry),
		retention: retention,
		now:       time.Now,
	}
}

func (s *Store) expired(e entry) bool {
	return s.retention > 0 && s.now().Sub(e.savedAt) >= s.retention
}

// Get returns the stored response for a key, or nil when the key is unused
// or has expired.
func (s *Store) Get(_ context.Context, key string) (*ports.StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	if s.expired(e) {
		delete(s.items, key)
		return nil, nil
	}
	stored := e.response
	stored.Body = append([]byte(nil), e.response.Body...)
	return &stored, nil
}

// Save records the first response for a key. Later saves are ignored until
// the entry expires.
func (s *Store) Save(_ context.Context, key string, response ports.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.items[key]; exists && !s.expired(e) {
		return nil
	}
	response.Body = append([]byte(nil), response.Body...)
	s.items[key] = entry{response: response, savedAt: s.now()}
	return nil
}
