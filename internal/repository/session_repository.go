package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository.session")

// ErrNoSession is returned when a token maps to no live session.
var ErrNoSession = errors.New("no such session")

// SessionRepository maps opaque cookie tokens to authenticated user ids.
// Sessions live in Redis under an idle TTL that is refreshed on every hit,
// so an active user stays logged in while an abandoned session expires.
type SessionRepository interface {
	Create(ctx context.Context, userID int64) (string, error)
	UserID(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

type redisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepository creates a new Redis-based SessionRepository.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{rdb: rdb, ttl: ttl}
}

// Create mints a fresh opaque token bound to userID.
func (r *redisSessionRepository) Create(ctx context.Context, userID int64) (string, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.Create")
	defer span.End()

	token := uuid.New().String()
	sessionKey := fmt.Sprintf("session:%s", token)
	if err := r.rdb.Set(ctx, sessionKey, userID, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// UserID resolves a token to its user id and slides the TTL forward.
func (r *redisSessionRepository) UserID(ctx context.Context, token string) (int64, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.UserID")
	defer span.End()

	sessionKey := fmt.Sprintf("session:%s", token)
	val, err := r.rdb.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoSession
		}
		return 0, fmt.Errorf("failed to look up session: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value: %w", err)
	}

	// Best effort refresh; a failed EXPIRE only shortens the session.
	r.rdb.Expire(ctx, sessionKey, r.ttl)

	return userID, nil
}

// Delete clears the session. Deleting an unknown token is not an error.
func (r *redisSessionRepository) Delete(ctx context.Context, token string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete")
	defer span.End()

	sessionKey := fmt.Sprintf("session:%s", token)
	if err := r.rdb.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
