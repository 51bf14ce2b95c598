package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RedisStore 多实例部署时共享会话，过期交给 key TTL
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	sf     singleflight.Group
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: "session:"}, nil
}

func (s *RedisStore) Create(ctx context.Context, ident Identity) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(ident)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, s.prefix+token, b, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (*Identity, error) {
	// single flight 合并同一 token 的并发解析
	v, err, _ := s.sf.Do(token, func() (any, error) {
		b, err := s.rdb.Get(ctx, s.prefix+token).Bytes()
		if errors.Is(err, redis.Nil) {
			return (*Identity)(nil), nil
		}
		if err != nil {
			return nil, err
		}
		var ident Identity
		if err := json.Unmarshal(b, &ident); err != nil {
			return nil, err
		}
		return &ident, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Identity), nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, s.prefix+token).Err()
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
