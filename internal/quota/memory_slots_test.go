package quota

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlots_SingleWinner(t *testing.T) {
	s := NewMemorySlots()
	until := time.Now().Add(time.Hour)
	key := DailyKey("resume_check", "u1", "2026-01-02")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := s.Reserve(context.Background(), key, until)
			assert.NoError(t, err)
			if tok != "" {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestMemorySlots_ReleaseAndExpiry(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	s := NewMemorySlots()
	s.Now = func() time.Time { return now }
	ctx := context.Background()

	tok, err := s.Reserve(ctx, "k", now.Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	require.NoError(t, s.Release(ctx, "k", "someone-else"))
	again, _ := s.Reserve(ctx, "k", now.Add(time.Hour))
	assert.Empty(t, again)

	require.NoError(t, s.Release(ctx, "k", tok))
	again, _ = s.Reserve(ctx, "k", now.Add(time.Hour))
	assert.NotEmpty(t, again)

	now = now.Add(2 * time.Hour)
	later, _ := s.Reserve(ctx, "k", now.Add(time.Hour))
	assert.NotEmpty(t, later)
}
