// Package session persists the API access token between runs.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const (
	storeFile = "session.db"

	// TokenKey is the fixed storage key of the access token.
	TokenKey = "catalog_token"
	// RefreshKey holds the refresh token issued at login.
	RefreshKey = "catalog_refresh_token"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Store is a small key/value table holding the session tokens
type Store struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the session store in baseDir
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	path := filepath.Join(baseDir, storeFile)
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

func (s *Store) get(key string) (string, error) {
	var v string
	err := s.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) set(tx *sql.Tx, key, value string) error {
	if value == "" {
		_, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, key)
		return err
	}
	_, err := tx.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	return err
}

// Token returns the stored access token, or "" when anonymous
func (s *Store) Token() (string, error) {
	return s.get(TokenKey)
}

// RefreshToken returns the stored refresh token, or ""
func (s *Store) RefreshToken() (string, error) {
	return s.get(RefreshKey)
}

// HasToken reports whether an access token is stored
func (s *Store) HasToken() bool {
	tok, err := s.Token()
	return err == nil && strings.TrimSpace(tok) != ""
}

// SetTokens stores the access and refresh tokens. An empty refresh token
// leaves the stored one in place.
func (s *Store) SetTokens(access, refresh string) error {
	if strings.TrimSpace(access) == "" {
		return errors.New("empty access token")
	}
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := s.set(tx, TokenKey, access); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if refresh != "" {
		if err := s.set(tx, RefreshKey, refresh); err != nil {
			return fmt.Errorf("write refresh token: %w", err)
		}
	}
	return tx.Commit()
}

// Clear forgets both tokens (logout)
func (s *Store) Clear() error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := s.set(tx, TokenKey, ""); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := s.set(tx, RefreshKey, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return tx.Commit()
}
