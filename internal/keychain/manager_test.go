// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

// failRing wraps an in-memory keyring and refuses writes for chosen keys.
type failRing struct {
	keyring.Keyring
	refuse map[string]bool
}

func (f *failRing) Set(item keyring.Item) error {
	if f.refuse[item.Key] {
		return errors.New("backend write refused")
	}
	return f.Keyring.Set(item)
}

func newTestManager() *Manager {
	return &Manager{ring: keyring.NewArrayKeyring(nil)}
}

func TestSaveLoadSessionRoundTrip(t *testing.T) {
	m := newTestManager()

	user := []byte(`{"id":1,"email":"ada@example.com","full_name":"Ada Lovelace"}`)
	if err := m.SaveSession("tok-123", user); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	tok, gotUser, err := m.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if tok != "tok-123" {
		t.Errorf("token = %q, want %q", tok, "tok-123")
	}
	if string(gotUser) != string(user) {
		t.Errorf("user = %s, want %s", gotUser, user)
	}
}

func TestLoadSessionAbsent(t *testing.T) {
	m := newTestManager()

	tok, user, err := m.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() error = %v, want nil for absent keys", err)
	}
	if tok != "" || user != nil {
		t.Errorf("LoadSession() = (%q, %v), want empty", tok, user)
	}
}

func TestClearSessionRemovesBothKeys(t *testing.T) {
	m := newTestManager()

	if err := m.SaveSession("tok", []byte(`{"id":1}`)); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	if err := m.ClearSession(); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}

	tok, user, err := m.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if tok != "" || user != nil {
		t.Errorf("session still present after clear: (%q, %s)", tok, user)
	}
}

func TestClearSessionIdempotent(t *testing.T) {
	m := newTestManager()
	if err := m.ClearSession(); err != nil {
		t.Errorf("ClearSession() on empty store error = %v, want nil", err)
	}
}

func TestSaveSessionRollsBackTokenOnUserFailure(t *testing.T) {
	ring := &failRing{
		Keyring: keyring.NewArrayKeyring(nil),
		refuse:  map[string]bool{KeyUserData: true},
	}
	m := &Manager{ring: ring}

	if err := m.SaveSession("tok", []byte(`{"id":1}`)); err == nil {
		t.Fatal("SaveSession() error = nil, want failure")
	}

	// The half-written token must have been rolled back.
	if _, err := ring.Get(KeyAuthToken); !errors.Is(err, keyring.ErrKeyNotFound) {
		t.Errorf("auth token still stored after failed pair write, Get err = %v", err)
	}
}

func TestClearSessionLeavesExportDSN(t *testing.T) {
	m := newTestManager()

	if err := m.SaveExportDSN("postgres://u:p@localhost:5432/db"); err != nil {
		t.Fatalf("SaveExportDSN() error = %v", err)
	}
	if err := m.SaveSession("tok", []byte(`{"id":1}`)); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	if err := m.ClearSession(); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}

	dsn, err := m.LoadExportDSN()
	if err != nil {
		t.Fatalf("LoadExportDSN() error = %v", err)
	}
	if dsn == "" {
		t.Error("export DSN removed by session clear")
	}
}

func TestExportDSN(t *testing.T) {
	m := newTestManager()

	dsn, err := m.LoadExportDSN()
	if err != nil || dsn != "" {
		t.Fatalf("LoadExportDSN() on empty store = (%q, %v), want empty", dsn, err)
	}

	if err := m.SaveExportDSN("postgres://u:p@host/db"); err != nil {
		t.Fatalf("SaveExportDSN() error = %v", err)
	}
	dsn, err = m.LoadExportDSN()
	if err != nil {
		t.Fatalf("LoadExportDSN() error = %v", err)
	}
	if dsn != "postgres://u:p@host/db" {
		t.Errorf("LoadExportDSN() = %q", dsn)
	}

	if err := m.ClearExportDSN(); err != nil {
		t.Fatalf("ClearExportDSN() error = %v", err)
	}
	dsn, err = m.LoadExportDSN()
	if err != nil || dsn != "" {
		t.Errorf("LoadExportDSN() after clear = (%q, %v), want empty", dsn, err)
	}
}
