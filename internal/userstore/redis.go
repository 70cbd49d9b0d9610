package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maheshdila/cv-gen-BE/internal/types"
)

const redisKeyPrefix = "cvuser:"

// RedisStore keeps the latest record of an email as a JSON string and its history in a
// sorted set scored by creation time.
type RedisStore struct {
	rdb *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server at redisURL and verifies it with a ping.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func latestKey(email string) string {
	return redisKeyPrefix + email
}

func historyKey(email string) string {
	return redisKeyPrefix + email + ":history"
}

func (s *RedisStore) Put(ctx context.Context, rec *Record) error {
	email, err := ValidateEmail(rec.Email)
	if err != nil {
		return err
	}
	stored := *rec
	stored.Email = email

	payload, err := json.Marshal(stored)
	if err != nil {
		return &StorageError{Op: "put", Email: email, Cause: err}
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, latestKey(email), payload, 0)
		pipe.ZAdd(ctx, historyKey(email), redis.Z{
			Score:  float64(stored.CreatedAt.UnixMilli()),
			Member: payload,
		})
		return nil
	})
	if err != nil {
		return &StorageError{Op: "put", Email: email, Cause: err}
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (*Record, error) {
	email = NormalizeEmail(email)
	payload, err := s.rdb.Get(ctx, latestKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, &StorageError{Op: "get", Email: email, Cause: err}
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, &StorageError{Op: "get", Email: email, Cause: err}
	}
	return &rec, nil
}

func (s *RedisStore) Update(ctx context.Context, email string, raw types.GenerateRequest, now time.Time) (*Record, error) {
	normalized, err := ValidateEmail(email)
	if err != nil {
		return nil, err
	}

	rec, err := s.Get(ctx, normalized)
	if err != nil {
		var storageErr *StorageError
		if errors.As(err, &storageErr) {
			storageErr.Op = "update"
		}
		return nil, err
	}
	now = now.UTC()
	if rec == nil {
		rec = &Record{Email: normalized, CreatedAt: now}
	}
	rec.RawInput = raw
	rec.UpdatedAt = now

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, &StorageError{Op: "update", Email: normalized, Cause: err}
	}
	if err := s.rdb.Set(ctx, latestKey(normalized), payload, 0).Err(); err != nil {
		return nil, &StorageError{Op: "update", Email: normalized, Cause: err}
	}
	return rec, nil
}

func (s *RedisStore) History(ctx context.Context, email string, limit int) ([]Record, error) {
	email = NormalizeEmail(email)
	members, err := s.rdb.ZRevRange(ctx, historyKey(email), 0, int64(historyLimit(limit))-1).Result()
	if err != nil {
		return nil, &StorageError{Op: "history", Email: email, Cause: err}
	}

	records := make([]Record, 0, len(members))
	for _, member := range members {
		var rec Record
		if err := json.Unmarshal([]byte(member), &rec); err != nil {
			return nil, &StorageError{Op: "history", Email: email, Cause: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
