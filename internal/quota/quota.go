package quota

import (
	"context"
	"time"
)

// Slots hands out single-use slots that expire at a fixed instant.
// Reserve is atomic: of two concurrent callers for the same key, one wins.
type Slots interface {
	// Reserve returns a non-empty token when the slot was free.
	Reserve(ctx context.Context, key string, until time.Time) (token string, err error)
	// Release frees a slot, but only if token still owns it.
	Release(ctx context.Context, key, token string) error
}

// DailyKey names the slot of one user for one UTC day.
func DailyKey(scope, userID, day string) string {
	return "quota:" + scope + ":" + userID + ":" + day
}
