// Package store persists the process-wide client state that must survive
// across sessions: the authentication flag, the serialized user profile, the
// display-currency preference, and the last-good listing snapshot. Values
// are kept under fixed keys in a SQLite key-value table.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/core"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/currency"
	"github.com/while-siddiqh-in-programing/auction-web-with-blockchain-security/marketapi"
)

// Fixed keys. Cleared only by an explicit logout (session keys) or
// overwritten on the next successful fetch (snapshot).
const (
	keyAuthenticated = "isAuthenticated"
	keyUser          = "user"
	keyCurrency      = "currency"
	keySnapshot      = "listingSnapshot"
)

// Store is the SQLite-backed key-value state store.
type Store struct {
	db *sql.DB
}

// Open initializes the store at path, creating the schema if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create state schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) put(key string, value []byte) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *Store) delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// SetAuthenticated records the login flag.
func (s *Store) SetAuthenticated(v bool) error {
	if !v {
		return s.delete(keyAuthenticated)
	}
	return s.put(keyAuthenticated, []byte("true"))
}

// Authenticated reports whether a login flag is present.
func (s *Store) Authenticated() bool {
	value, ok, err := s.get(keyAuthenticated)
	return err == nil && ok && string(value) == "true"
}

// SaveUser persists the user profile as JSON.
func (s *Store) SaveUser(u marketapi.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}
	return s.put(keyUser, data)
}

// LoadUser returns the persisted profile, if any.
func (s *Store) LoadUser() (marketapi.User, bool) {
	data, ok, err := s.get(keyUser)
	if err != nil || !ok {
		return marketapi.User{}, false
	}
	var u marketapi.User
	if err := json.Unmarshal(data, &u); err != nil {
		return marketapi.User{}, false
	}
	return u, true
}

// ClearSession removes the authentication flag and the user profile. The
// currency preference deliberately survives logout.
func (s *Store) ClearSession() error {
	if err := s.delete(keyAuthenticated); err != nil {
		return err
	}
	return s.delete(keyUser)
}

// SavePreference implements currency.PreferenceStore.
func (s *Store) SavePreference(u currency.Unit) error {
	return s.put(keyCurrency, []byte(u))
}

// LoadPreference implements currency.PreferenceStore.
func (s *Store) LoadPreference() (currency.Unit, bool) {
	value, ok, err := s.get(keyCurrency)
	if err != nil || !ok {
		return "", false
	}
	return currency.Unit(value), true
}

// SaveSnapshot persists the last-good listing snapshot, CBOR-encoded, so a
// restarted client can render the previous listing before its first fetch.
func (s *Store) SaveSnapshot(auctions []core.Auction) error {
	data, err := cbor.Marshal(auctions)
	if err != nil {
		return fmt.Errorf("failed to encode listing snapshot: %w", err)
	}
	return s.put(keySnapshot, data)
}

// LoadSnapshot returns the persisted listing snapshot, if any. A corrupt
// snapshot is treated as absent.
func (s *Store) LoadSnapshot() ([]core.Auction, bool) {
	data, ok, err := s.get(keySnapshot)
	if err != nil || !ok {
		return nil, false
	}
	var auctions []core.Auction
	if err := cbor.Unmarshal(data, &auctions); err != nil {
		return nil, false
	}
	return auctions, true
}
