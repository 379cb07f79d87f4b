package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/redis/go-redis/v9"
)

// NewStore returns a Redis-backed store when rdb is available and an
// in-process store otherwise.
func NewStore(rdb *redis.Client, ttl time.Duration) Store {
	if rdb == nil {
		return NewMemoryStore(ttl)
	}
	return NewRedisStore(rdb, ttl)
}

// RedisStore keeps notices in a per-session Redis list.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(session string) string {
	return "flash:" + session
}

func (s *RedisStore) Push(ctx context.Context, session string, notices ...Notice) error {
	if len(notices) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(notices))
	for _, n := range notices {
		b, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("encode flash notice: %w", err)
		}
		values = append(values, string(b))
	}

	key := redisKey(session)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push flash notices: %w", err)
	}
	return nil
}

func (s *RedisStore) Drain(ctx context.Context, session string) ([]Notice, error) {
	key := redisKey(session)
	var items *redis.StringSliceCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drain flash notices: %w", err)
	}

	raw := items.Val()
	notices := make([]Notice, 0, len(raw))
	for _, item := range raw {
		var n Notice
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		notices = append(notices, n)
	}
	return notices, nil
}

// MemoryStore is an in-process Store used when Redis is not configured.
// Entries expire through the storage's own TTL.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	storage *memory.Storage
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		storage: memory.New(memory.Config{GCInterval: time.Minute}),
	}
}

func (s *MemoryStore) Push(_ context.Context, session string, notices ...Notice) error {
	if len(notices) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(session)
	if err != nil {
		return err
	}
	b, err := json.Marshal(append(existing, notices...))
	if err != nil {
		return fmt.Errorf("encode flash notices: %w", err)
	}
	return s.storage.Set(redisKey(session), b, s.ttl)
}

func (s *MemoryStore) Drain(_ context.Context, session string) ([]Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notices, err := s.load(session)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Delete(redisKey(session)); err != nil {
		return nil, fmt.Errorf("drain flash notices: %w", err)
	}
	return notices, nil
}

func (s *MemoryStore) load(session string) ([]Notice, error) {
	raw, err := s.storage.Get(redisKey(session))
	if err != nil {
		return nil, fmt.Errorf("load flash notices: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var notices []Notice
	if err := json.Unmarshal(raw, &notices); err != nil {
		return nil, fmt.Errorf("decode flash notices: %w", err)
	}
	return notices, nil
}
