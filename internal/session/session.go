// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session owns the authentication lifecycle of the CLI.
// It restores a previously stored session on startup, performs login,
// registration and logout against the backend, and keeps an in-memory
// snapshot commands read their auth state from. Credentials are persisted
// through a Storage implementation (the OS keychain in production) before
// the in-memory state is updated, so a crash between the two never leaves
// a session the next start cannot restore.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"mealtrack/cli/internal/apperrors"
	"mealtrack/cli/internal/backend"
)

func verboseSession() bool { return os.Getenv("MEALTRACK_VERBOSE") == "1" }

// Session is a point-in-time snapshot of the authentication state.
// Authenticated is true only when Token and User are both present; the three
// fields always change together under the manager's lock.
type Session struct {
	Token         string
	User          json.RawMessage
	Authenticated bool
	Loading       bool
}

// Storage persists the credential pair across process runs.
// Implementations report absent credentials as zero values, not errors.
type Storage interface {
	SaveSession(token string, user []byte) error
	LoadSession() (token string, user []byte, err error)
	ClearSession() error
}

// Authenticator is the slice of the backend API the manager needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
	Register(ctx context.Context, fullName, email, password string) error
}

// Logger receives the errors the manager downgrades to warnings
// (restore and logout degrade instead of failing).
type Logger interface {
	Warnf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warnf(string, ...any) {}

// Manager coordinates authentication state between the backend, durable
// storage and in-memory readers. All methods are safe for concurrent use;
// whole login flows are not serialized against each other, so racing logins
// resolve last-write-wins.
type Manager struct {
	mu    sync.RWMutex
	api   Authenticator
	store Storage
	log   Logger
	cur   Session
}

// NewManager returns a manager in the loading state. Call Restore before
// reading the session or deriving navigation from it.
func NewManager(api Authenticator, store Storage, log Logger) *Manager {
	if log == nil {
		log = noopLogger{}
	}
	return &Manager{
		api:   api,
		store: store,
		log:   log,
		cur:   Session{Loading: true},
	}
}

// Restore loads the stored credential pair into memory. It never fails from
// the caller's perspective: a read error, an absent pair or a corrupt user
// record all leave the manager signed out. The loading flag drops on every
// path, success or not.
func (m *Manager) Restore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.cur.Loading = false }()

	token, user, err := m.store.LoadSession()
	if err != nil {
		m.log.Warnf("could not restore session: %v", err)
		return
	}
	if token == "" || len(user) == 0 {
		if verboseSession() {
			fmt.Printf("[DEBUG] session.Restore: no stored session\n")
		}
		return
	}
	if !json.Valid(user) {
		m.log.Warnf("stored account record is corrupt, staying signed out")
		return
	}

	if verboseSession() {
		fmt.Printf("[DEBUG] session.Restore: restored session, user record %d bytes\n", len(user))
	}
	m.cur.Token = token
	m.cur.User = append(json.RawMessage(nil), user...)
	m.cur.Authenticated = true
}

// Login authenticates against the backend and establishes the session.
// The credential pair is persisted before memory changes; when persistence
// fails the error carries apperrors.Persistence and the in-memory state is
// left exactly as it was. Backend rejections and transport failures pass
// through with their apperrors kind intact.
func (m *Manager) Login(ctx context.Context, email, password string) (*backend.LoginResult, error) {
	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.SaveSession(res.AccessToken, res.User); err != nil {
		return nil, apperrors.Wrap(apperrors.Persistence, "could not save your session", err)
	}

	m.mu.Lock()
	m.cur = Session{
		Token:         res.AccessToken,
		User:          append(json.RawMessage(nil), res.User...),
		Authenticated: true,
	}
	m.mu.Unlock()

	return res, nil
}

// Register creates the account and signs it in. The registration response
// body is discarded; the session is established by a single regular Login
// so credential persistence has exactly one code path.
func (m *Manager) Register(ctx context.Context, fullName, email, password string) (*backend.LoginResult, error) {
	if err := m.api.Register(ctx, fullName, email, password); err != nil {
		return nil, err
	}
	return m.Login(ctx, email, password)
}

// Logout removes the stored credential pair and resets the in-memory state.
// It cannot fail from the caller's perspective: removal is retried once and
// a persistent failure is logged, while memory is cleared regardless.
func (m *Manager) Logout() {
	if err := m.store.ClearSession(); err != nil {
		if err = m.store.ClearSession(); err != nil {
			m.log.Warnf("could not remove stored credentials: %v", err)
		}
	}

	m.mu.Lock()
	m.cur = Session{}
	m.mu.Unlock()
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.cur
	s.User = append(json.RawMessage(nil), m.cur.User...)
	return s
}

// IsAuthenticated reports whether a session is established.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Authenticated
}

// IsLoading reports whether Restore has not completed yet.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Loading
}

// Token returns the session token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Token
}

// RedirectFor derives the navigation intent for the given surface from the
// current snapshot. The intent is computed fresh on every call, never stored.
func (m *Manager) RedirectFor(current Area) Redirect {
	s := m.Snapshot()
	return Decide(s.Authenticated, s.Loading, current)
}
