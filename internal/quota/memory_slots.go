package quota

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type slot struct {
	token string
	until time.Time
}

// MemorySlots is a process-local Slots. Now can be replaced to move time.
type MemorySlots struct {
	mu    sync.Mutex
	slots map[string]slot
	Now   func() time.Time
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{slots: map[string]slot{}, Now: time.Now}
}

func (s *MemorySlots) Reserve(_ context.Context, key string, until time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.slots[key]; ok && s.Now().Before(cur.until) {
		return "", nil
	}
	token := uuid.NewString()
	s.slots[key] = slot{token: token, until: until}
	return token, nil
}

func (s *MemorySlots) Release(_ context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.slots[key]; ok && cur.token == token {
		delete(s.slots, key)
	}
	return nil
}
