package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/alsafar-travels/umrahdesk/config"
	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the desk session in Redis so it survives restarts,
// the way a browser client keeps it in local storage.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

func NewRedisStorage(cfg config.RedisConfig, prefix string) *RedisStorage {
	return &RedisStorage{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		prefix: prefix,
	}
}

func (s *RedisStorage) Load(ctx context.Context) (domain.Session, bool, error) {
	data, err := s.client.Get(ctx, s.sessionKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, false, nil
		}
		return domain.Session{}, false, err
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domain.Session{}, false, err
	}
	return sess, true, nil
}

func (s *RedisStorage) Save(ctx context.Context, sess domain.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.sessionKey(), payload, 0).Err()
}

func (s *RedisStorage) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.sessionKey()).Err()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}

func (s *RedisStorage) sessionKey() string {
	return s.prefix + ":session"
}
