// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/sec"
	"github.com/BryanPineda21/HWSphere/internal/users/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// # Users

type memoryUsers struct {
	mu      sync.Mutex
	byID    map[string]*auth.User
	touched map[string]time.Time
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]*auth.User{}, touched: map[string]time.Time{}}
}

func (users *memoryUsers) Create(_ context.Context, user *auth.User) error {
	users.mu.Lock()
	defer users.mu.Unlock()
	for _, existing := range users.byID {
		if strings.EqualFold(existing.Username, user.Username) || strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("User already exists")
		}
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	clone := *user
	users.byID[user.ID] = &clone
	return nil
}

func (users *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	user, ok := users.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (users *memoryUsers) find(match func(*auth.User) bool) (*auth.User, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	for _, user := range users.byID {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (users *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return users.find(func(u *auth.User) bool { return strings.EqualFold(u.Username, username) })
}

func (users *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return users.find(func(u *auth.User) bool { return strings.EqualFold(u.Email, email) })
}

func (users *memoryUsers) UpdateProfile(_ context.Context, user *auth.User) error {
	users.mu.Lock()
	defer users.mu.Unlock()
	stored, ok := users.byID[user.ID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.DisplayName, stored.Bio = user.DisplayName, user.Bio
	return nil
}

func (users *memoryUsers) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	users.mu.Lock()
	defer users.mu.Unlock()
	users.touched[id] = at
	return nil
}

func (users *memoryUsers) remove(id string) {
	users.mu.Lock()
	defer users.mu.Unlock()
	delete(users.byID, id)
}

// # Sessions

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]auth.Session
	ttls     map[string]time.Duration
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]auth.Session{}, ttls: map[string]time.Duration{}}
}

func (store *memorySessions) Create(_ context.Context, session *auth.Session, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[session.TokenHash] = *session
	store.ttls[session.TokenHash] = ttl
	return nil
}

func (store *memorySessions) Take(_ context.Context, tokenHash string) (*auth.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	session, ok := store.sessions[tokenHash]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	delete(store.sessions, tokenHash)
	return &session, nil
}

func (store *memorySessions) Delete(_ context.Context, tokenHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.sessions, tokenHash)
	return nil
}

func (store *memorySessions) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.sessions)
}

// # Throttle

type memoryThrottle struct {
	mu       sync.Mutex
	failures map[string]int64
	broken   bool
}

func newMemoryThrottle() *memoryThrottle {
	return &memoryThrottle{failures: map[string]int64{}}
}

var errThrottleDown = errors.New("throttle unavailable")

func (throttle *memoryThrottle) Failures(_ context.Context, login string) (int64, error) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	if throttle.broken {
		return 0, errThrottleDown
	}
	return throttle.failures[strings.ToLower(login)], nil
}

func (throttle *memoryThrottle) RecordFailure(_ context.Context, login string, _ time.Duration) (int64, error) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	if throttle.broken {
		return 0, errThrottleDown
	}
	throttle.failures[strings.ToLower(login)]++
	return throttle.failures[strings.ToLower(login)], nil
}

func (throttle *memoryThrottle) Reset(_ context.Context, login string) error {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	if throttle.broken {
		return errThrottleDown
	}
	delete(throttle.failures, strings.ToLower(login))
	return nil
}

// # Fixture

type fixture struct {
	users    *memoryUsers
	sessions *memorySessions
	throttle *memoryThrottle
	tokens   *sec.TokenService
	service  *auth.Service
}

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	keyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		testKey = key
	})

	f := &fixture{
		users:    newMemoryUsers(),
		sessions: newMemorySessions(),
		throttle: newMemoryThrottle(),
		tokens:   sec.NewTokenServiceFromKeys(testKey, &testKey.PublicKey, "hwsphere.test"),
	}
	f.service = auth.NewService(f.users, f.sessions, f.throttle, f.tokens, discardLogger())
	return f
}

const testPassword = "printed-in-petg"

func (f *fixture) register(t *testing.T, username string) *auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    username + "@hwsphere.test",
		Password: testPassword,
	})
	require.NoError(t, err)
	return user
}
