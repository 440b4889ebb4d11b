// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
)

// # Sessions

// RedisSessionStore implements [SessionStore] with one JSON value per session.
type RedisSessionStore struct {
	client redis.Cmdable
}

// NewSessionStore creates a Redis-backed [SessionStore].
func NewSessionStore(client redis.Cmdable) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

/*
Create stores the session under auth:session:<hash>.

Parameters:
  - session: *Session (TokenHash must be set)
  - ttl: time.Duration (Redis expiry of the key)
*/
func (store *RedisSessionStore) Create(context context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(context, sessionKey(session.TokenHash), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

// Take implements [SessionStore] with GETDEL.
func (store *RedisSessionStore) Take(context context.Context, tokenHash string) (*Session, error) {
	payload, err := store.client.GetDel(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_take_failed: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}
	session.TokenHash = tokenHash
	return &session, nil
}

// Delete implements [SessionStore].
func (store *RedisSessionStore) Delete(context context.Context, tokenHash string) error {
	if err := store.client.Del(context, sessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

// # Login Throttling

// RedisLoginThrottle implements [LoginThrottle] with INCR and EXPIRE counters.
type RedisLoginThrottle struct {
	client redis.Cmdable
}

// NewLoginThrottle creates a Redis-backed [LoginThrottle].
func NewLoginThrottle(client redis.Cmdable) *RedisLoginThrottle {
	return &RedisLoginThrottle{client: client}
}

// Login names are case-insensitive, so are their counters.
func attemptKey(login string) string {
	return constants.RedisPrefixLoginAttempt + strings.ToLower(strings.TrimSpace(login))
}

// Failures returns the current failure count; a missing key counts as zero.
func (throttle *RedisLoginThrottle) Failures(context context.Context, login string) (int64, error) {
	count, err := throttle.client.Get(context, attemptKey(login)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_login_attempt_get_failed: %w", err)
	}
	return count, nil
}

/*
RecordFailure increments the counter for login.

The window starts with the first failure; later failures do not extend it.

Returns:
  - int64: the count after this failure
*/
func (throttle *RedisLoginThrottle) RecordFailure(context context.Context, login string, window time.Duration) (int64, error) {
	key := attemptKey(login)

	var incr *redis.IntCmd
	_, err := throttle.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(context, key)
		pipe.ExpireNX(context, key, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis_login_attempt_incr_failed: %w", err)
	}
	return incr.Val(), nil
}

// Reset clears the counter after a successful login.
func (throttle *RedisLoginThrottle) Reset(context context.Context, login string) error {
	if err := throttle.client.Del(context, attemptKey(login)).Err(); err != nil {
		return fmt.Errorf("redis_login_attempt_reset_failed: %w", err)
	}
	return nil
}
