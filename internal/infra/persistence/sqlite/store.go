// Package sqlite persists the in-memory allocation state to an embedded
// SQLite database, snapshotting the full state after every successful
// transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"btocore/internal/infra/persistence/memory"
	"btocore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store wraps the memory store with a SQLite snapshot of each bucket as a
// JSON blob.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var _ domain.PersistentStore = (*Store)(nil)

// NewStore constructs a snapshotting SQLite-backed persistent store.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = "btocore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var buckets = []string{"persons", "projects", "applications", "registration_forms", "enquiries"}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	payloads := map[string][]byte{}
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		payloads[bucket] = payload
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if len(payloads) == 0 {
		return nil
	}

	var snapshot memory.Snapshot
	for bucket, payload := range payloads {
		var decodeErr error
		switch bucket {
		case "persons":
			decodeErr = json.Unmarshal(payload, &snapshot.Persons)
		case "projects":
			decodeErr = json.Unmarshal(payload, &snapshot.Projects)
		case "applications":
			decodeErr = json.Unmarshal(payload, &snapshot.Applications)
		case "registration_forms":
			decodeErr = json.Unmarshal(payload, &snapshot.Forms)
		case "enquiries":
			decodeErr = json.Unmarshal(payload, &snapshot.Enquiries)
		}
		if decodeErr != nil {
			return fmt.Errorf("decode %s: %w", bucket, decodeErr)
		}
	}
	s.ImportState(snapshot)
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range buckets {
		var data []byte
		switch bucket {
		case "persons":
			data, err = json.Marshal(snapshot.Persons)
		case "projects":
			data, err = json.Marshal(snapshot.Projects)
		case "applications":
			data, err = json.Marshal(snapshot.Applications)
		case "registration_forms":
			data, err = json.Marshal(snapshot.Forms)
		case "enquiries":
			data, err = json.Marshal(snapshot.Enquiries)
		}
		if err != nil {
			retErr = err
			return retErr
		}
		if _, err = tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	return tx.Commit()
}

// RunInTransaction applies fn within a transaction, then snapshots state to
// SQLite if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }
