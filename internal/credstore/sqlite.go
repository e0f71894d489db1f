package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"github.com/Cgriz365/inkbridge/internal/logging"
)

const (
	// sqliteBusyTimeoutMs bounds how long an operation waits for a locked database.
	sqliteBusyTimeoutMs = 5000

	// sqliteOpTimeout bounds a single store operation.
	sqliteOpTimeout = 5 * time.Second
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	namespace TEXT NOT NULL,
	key       TEXT NOT NULL,
	value     TEXT NOT NULL,
	PRIMARY KEY (namespace, key)
)`

// SQLiteStore persists records in a SQLite database. The database is opened and closed
// around every operation so no transaction is ever held across calls.
type SQLiteStore struct {
	path string

	mu   sync.Mutex
	init bool
}

// NewSQLiteStore creates a store backed by the SQLite file at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Best effort close after schema check

	s.init = true
	return nil
}

func (s *SQLiteStore) IsInit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.init
}

func (s *SQLiteStore) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Write already committed

	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	_, err = db.ExecContext(ctx,
		`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value`,
		Namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Load(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open()
	if err != nil {
		logging.Debug("Credential database not readable", zap.String("path", s.path), zap.Error(err))
		return "", false
	}
	defer db.Close() //nolint:errcheck // Read-only

	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	var value string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, Namespace, key,
	).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.Debug("Credential lookup failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return value, true
}

func (s *SQLiteStore) FactoryReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Delete already committed

	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ?`, Namespace); err != nil {
		return fmt.Errorf("erasing namespace: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Location() string {
	return "sqlite://" + s.path
}

// open connects to the database and ensures the schema exists. Callers hold s.mu.
func (s *SQLiteStore) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d", s.path, sqliteBusyTimeoutMs)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	_ = os.Chmod(s.path, 0600)
	return db, nil
}
