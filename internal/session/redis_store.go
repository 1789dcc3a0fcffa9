package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/tritonlifts/api/internal/models"
)

const sessionKeyPrefix = "tritonlifts-session||"

var _ Store = (*RedisStore)(nil)

// RedisStore keeps each session as a JSON value whose key expires with the
// session.
type RedisStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	now         func() time.Time
	newID       func() string
}

func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
		ttl:         ttl,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (r *RedisStore) Open(ctx context.Context, user *models.User) (*Session, error) {
	now := r.now().UTC()
	s := &Session{
		ID:        r.newID(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := r.redisClient.Set(ctx, sessionKeyPrefix+s.ID, string(payload), r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := r.redisClient.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.Expired(r.now()) {
		return nil, ErrSessionNotFound
	}

	return &s, nil
}

// Save overwrites an existing session and keeps its remaining TTL.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	updated, err := r.redisClient.SetXX(ctx, sessionKeyPrefix+s.ID, string(payload), redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if !updated {
		return ErrSessionNotFound
	}

	return nil
}

func (r *RedisStore) Close(ctx context.Context, id string) error {
	deleted, err := r.redisClient.Del(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}
