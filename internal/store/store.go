// Package store persists user state as string-keyed JSON blobs in SQLite:
// recent searches, preferred unit, theme, and the last-known location.
// Every read degrades to a sensible default when the store is missing or
// broken; callers never see persistence failures on the read path.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/skycast/skycast/internal/format"
	"github.com/skycast/skycast/internal/weather"
)

// Storage keys.
const (
	keyRecentSearches = "skycast_recent_searches"
	keyPreferredUnit  = "skycast_preferred_unit"
	keyTheme          = "skycast_theme"
	keyLastLocation   = "skycast_last_location"
)

// MaxRecentSearches bounds the recent-search list.
const MaxRecentSearches = 5

// FreshWindow is how long a saved last location counts as fresh for
// auto-restore. Older records are ignored, not deleted.
const FreshWindow = time.Hour

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`

// Store is the single writer for durable user state. A Store with no
// database (see Disabled) serves defaults and swallows writes.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default database path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "skycast", "skycast.sqlite")
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory store, used when the on-disk database is
// unavailable and in tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every pooled connection would get its own empty in-memory DB.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Disabled returns a store with no backing database. Reads serve
// defaults, writes are no-ops.
func Disabled() *Store {
	return &Store{}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// get unmarshals the JSON blob at key into v, reporting whether a usable
// value was found.
func (s *Store) get(key string, v any) bool {
	if s.db == nil {
		return false
	}
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

// set marshals v and upserts it at key.
func (s *Store) set(key string, v any) error {
	if s.db == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// remove deletes the blob at key.
func (s *Store) remove(key string) error {
	if s.db == nil {
		return nil
	}
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// RecentSearches returns the saved searches, most recent first.
func (s *Store) RecentSearches() []weather.Location {
	var locs []weather.Location
	s.get(keyRecentSearches, &locs)
	return locs
}

// AddRecentSearch puts loc at the front of the recent list, removing any
// earlier entry for the same place and capping the list length.
func (s *Store) AddRecentSearch(loc weather.Location) error {
	if !loc.Valid() {
		return nil
	}

	searches := s.RecentSearches()
	filtered := make([]weather.Location, 0, len(searches)+1)
	filtered = append(filtered, loc)
	for _, prev := range searches {
		if prev.SamePlace(loc) {
			continue
		}
		filtered = append(filtered, prev)
	}
	if len(filtered) > MaxRecentSearches {
		filtered = filtered[:MaxRecentSearches]
	}
	return s.set(keyRecentSearches, filtered)
}

// ClearRecentSearches drops the saved search list.
func (s *Store) ClearRecentSearches() error {
	return s.remove(keyRecentSearches)
}

// PreferredUnit returns the saved temperature unit, defaulting to Celsius.
func (s *Store) PreferredUnit() format.Unit {
	var u format.Unit
	if s.get(keyPreferredUnit, &u) && (u == format.Celsius || u == format.Fahrenheit) {
		return u
	}
	return format.Celsius
}

// SetPreferredUnit saves the temperature unit.
func (s *Store) SetPreferredUnit(u format.Unit) error {
	return s.set(keyPreferredUnit, u)
}

// Theme returns the saved theme, defaulting to light.
func (s *Store) Theme() string {
	var t string
	if s.get(keyTheme, &t) && (t == ThemeLight || t == ThemeDark) {
		return t
	}
	return ThemeLight
}

// SetTheme saves the theme preference.
func (s *Store) SetTheme(theme string) error {
	return s.set(keyTheme, theme)
}

// lastLocationRecord is the persisted shape of the last-known location.
type lastLocationRecord struct {
	weather.Location
	Timestamp int64 `json:"timestamp"` // epoch millis
}

// LastLocation returns the saved last location and when it was saved.
func (s *Store) LastLocation() (weather.Location, time.Time, bool) {
	var rec lastLocationRecord
	if !s.get(keyLastLocation, &rec) || !rec.Location.Valid() {
		return weather.Location{}, time.Time{}, false
	}
	return rec.Location, time.UnixMilli(rec.Timestamp), true
}

// SetLastLocation saves loc stamped with the current time. Invalid
// locations are never persisted.
func (s *Store) SetLastLocation(loc weather.Location) error {
	return s.setLastLocationAt(loc, time.Now())
}

func (s *Store) setLastLocationAt(loc weather.Location, at time.Time) error {
	if !loc.Valid() {
		return nil
	}
	return s.set(keyLastLocation, lastLocationRecord{
		Location:  loc,
		Timestamp: at.UnixMilli(),
	})
}

// FreshLastLocation returns the last location only if it was saved within
// FreshWindow; stale records are treated as absent for auto-restore.
func (s *Store) FreshLastLocation() (weather.Location, bool) {
	loc, savedAt, ok := s.LastLocation()
	if !ok || time.Since(savedAt) >= FreshWindow {
		return weather.Location{}, false
	}
	return loc, true
}
