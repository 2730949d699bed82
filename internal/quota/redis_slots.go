package quota

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type RedisSlots struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisSlots(rdb *redis.Client) *RedisSlots {
	return &RedisSlots{rdb: rdb, now: time.Now}
}

func (s *RedisSlots) Reserve(ctx context.Context, key string, until time.Time) (string, error) {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		ttl = time.Second
	}
	token := uuid.NewString()
	ok, err := s.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

func (s *RedisSlots) Release(ctx context.Context, key, token string) error {
	if token == "" {
		return nil
	}
	return releaseScript.Run(ctx, s.rdb, []string{key}, token).Err()
}
