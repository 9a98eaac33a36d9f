package draft

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"medibill/backend/internal/domain"
)

// RedisStore keeps the draft in redis under a per-station key. No TTL: the
// draft survives until committed or cleared, same as the file variant.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(addr string, password string, db int, stationKey string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client, key: "medibill:draft:" + stationKey}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Save(ctx context.Context, d domain.SessionDraft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, payload, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context) (*domain.SessionDraft, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d domain.SessionDraft
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
