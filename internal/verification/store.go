package verification

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// otp:code:{phone} -> 6-digit code
	keyCode = "otp:code:"

	codeTTL = 5 * time.Minute
)

// luaConsumeCode deletes the stored code only when it matches the attempt,
// so a wrong guess does not burn the real code.
// KEYS[1]=code key, ARGV[1]=attempted code; returns 1 on match, 0 otherwise.
var luaConsumeCode = redis.NewScript(`
local stored = redis.call('GET', KEYS[1])
if stored and stored == ARGV[1] then
  redis.call('DEL', KEYS[1])
  return 1
end
return 0
`)

// CodeStore keeps issued codes until they are consumed or expire.
type CodeStore interface {
	Put(ctx context.Context, phone, code string) error
	// Consume reports whether code matches the stored one, deleting it on
	// a match in the same step so a code can be redeemed at most once.
	Consume(ctx context.Context, phone, code string) (bool, error)
}

type redisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) CodeStore {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Put(ctx context.Context, phone, code string) error {
	return s.rdb.Set(ctx, keyCode+phone, code, codeTTL).Err()
}

func (s *redisStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	n, err := luaConsumeCode.Run(ctx, s.rdb, []string{keyCode + phone}, code).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
