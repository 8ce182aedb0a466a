// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for mealtrack.
// This module manages all interactions with the OS keychain/credential store,
// providing a unified interface for storing and retrieving sensitive data such as
// the session token, the cached account record, and the export database DSN.
//
// The package supports macOS Keychain, Windows Credential Manager and the
// Linux secret services, with an encrypted file fallback for headless Linux
// systems. Session credentials are written as a pair: the store never holds
// an auth token without its matching user record.
package keychain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"mealtrack/cli/internal/terminal"
	"mealtrack/cli/internal/xdg"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for native keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "mealtrack"

// Keys used for storing secrets in the OS keychain. The session pair uses
// the names the mobile clients established, so an account signed in through
// an older client restores cleanly here.
const (
	KeyAuthToken = "authToken"
	KeyUserData  = "userData"
	KeyExportDSN = "exportDSN"
)

// errKeyNotFound marks an absent key regardless of which backend answered.
var errKeyNotFound = errors.New("key not found")

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}

	return &Manager{ring: ring}, nil
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}

	return globalManager, nil
}

// MustGetManager returns the global keychain manager instance.
// Panics if initialization fails. Use only when you're sure initialization will succeed.
func MustGetManager() *Manager {
	manager, err := GetManager()
	if err != nil {
		panic(err)
	}
	return manager
}

// openRing opens the OS keyring with per-platform backend preferences.
func openRing() (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName: ServiceName,
		PassPrefix:  ServiceName,
	}

	switch runtime.GOOS {
	case "darwin":
		// Keychain first, pass (password store) as fallback.
		// Pass requires the 'pass' utility: brew install pass
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
		}
	case "windows":
		cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend}
		cfg.WinCredPrefix = ServiceName
	default:
		// Desktop secret services first, then an encrypted file under the
		// XDG state dir for headless machines.
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
		cfg.LibSecretCollectionName = "login"
		stateDir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		cfg.FileDir = filepath.Join(stateDir, "keyring")
		cfg.FilePasswordFunc = filePassphrase
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}

	return ring, nil
}

// filePassphrase unlocks the encrypted file fallback. Scripted environments
// set MEALTRACK_FILE_PASSPHRASE; interactive ones get a hidden prompt.
func filePassphrase(prompt string) (string, error) {
	if pass := os.Getenv("MEALTRACK_FILE_PASSPHRASE"); pass != "" {
		return pass, nil
	}
	return terminal.ReadSecret(prompt + ": ")
}

// set writes one key through whichever backend is active.
func (m *Manager) set(key string, data []byte) error {
	if m.backend != nil {
		return m.backend.Set(key, string(data))
	}
	return m.ring.Set(keyring.Item{Key: key, Data: data})
}

// get reads one key; absent keys surface as errKeyNotFound.
func (m *Manager) get(key string) ([]byte, error) {
	if m.backend != nil {
		v, err := m.backend.Get(key)
		if err != nil {
			return nil, err
		}
		return []byte(v), nil
	}
	it, err := m.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, errKeyNotFound
		}
		return nil, err
	}
	return it.Data, nil
}

// remove deletes one key. Removing an absent key is not an error.
func (m *Manager) remove(key string) error {
	var err error
	if m.backend != nil {
		err = m.backend.Delete(key)
	} else {
		err = m.ring.Remove(key)
	}
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, errKeyNotFound) || errors.Is(err, keyring.ErrKeyNotFound)
}

// SaveSession stores the session token and user record as a pair.
// The token is written first; if the user record write fails the token is
// rolled back so the store never holds half a session.
// This method is thread-safe.
func (m *Manager) SaveSession(token string, user []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.set(KeyAuthToken, []byte(token)); err != nil {
		return fmt.Errorf("storing auth token: %w", err)
	}
	if err := m.set(KeyUserData, user); err != nil {
		if rbErr := m.remove(KeyAuthToken); rbErr != nil {
			return fmt.Errorf("storing user data: %w (token rollback also failed: %v)", err, rbErr)
		}
		return fmt.Errorf("storing user data: %w", err)
	}
	return nil
}

// LoadSession retrieves the stored session pair. Absent keys yield zero
// values without an error; only real backend failures are returned.
// This method is thread-safe.
func (m *Manager) LoadSession() (string, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tok, err := m.get(KeyAuthToken)
	if err != nil {
		if isNotFound(err) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("reading auth token: %w", err)
	}

	user, err := m.get(KeyUserData)
	if err != nil {
		if isNotFound(err) {
			return string(tok), nil, nil
		}
		return "", nil, fmt.Errorf("reading user data: %w", err)
	}

	return string(tok), user, nil
}

// ClearSession removes both session keys. Every key is attempted even when
// an earlier removal fails; the first failure is returned so the caller can
// decide its retry policy.
// This method is thread-safe.
func (m *Manager) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var first error
	for _, key := range []string{KeyAuthToken, KeyUserData} {
		if err := m.remove(key); err != nil && first == nil {
			first = fmt.Errorf("removing %s: %w", key, err)
		}
	}
	return first
}

// SaveExportDSN stores the export database DSN in the keychain.
// This method is thread-safe.
func (m *Manager) SaveExportDSN(dsn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(KeyExportDSN, []byte(dsn))
}

// LoadExportDSN retrieves the export database DSN, or "" when unset.
// This method is thread-safe.
func (m *Manager) LoadExportDSN() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.get(KeyExportDSN)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return string(v), nil
}

// ClearExportDSN removes the export database DSN from the keychain.
// This method is thread-safe.
func (m *Manager) ClearExportDSN() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(KeyExportDSN)
}
