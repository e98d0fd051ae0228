// Package sqlite is the persistent docstore backend. Documents are stored
// as JSON rows in a single table; filtering happens client-side, matching
// the store contract (no native ordering or server-side queries beyond
// equality on the primary key).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/tandemlist/tandem/internal/docstore"
)

const (
	dbFile      = "tandem.db"
	busyTimeout = 5000 // milliseconds

	schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	collection  TEXT NOT NULL,
	id          TEXT NOT NULL,
	data        TEXT NOT NULL,
	updated_at  INTEGER NOT NULL,
	PRIMARY KEY (collection, id)
);`
)

// Store implements docstore.Store over a local SQLite file. Writes from
// this process notify subscribers directly; writes from other processes
// sharing the file are picked up by a WAL watcher.
type Store struct {
	conn    *sql.DB
	hub     *docstore.Hub
	watcher *walWatcher
	log     zerolog.Logger
}

var _ docstore.Store = (*Store)(nil)

// Open creates or opens the database in dataDir and starts the change
// watcher. The file is created with WAL journaling so concurrent readers
// never block the writer.
func Open(dataDir string, log zerolog.Logger) (*Store, error) {
	dbPath := filepath.Join(dataDir, dbFile)
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", dbPath, busyTimeout)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.ExecContext(context.Background(), schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	s := &Store{
		conn: conn,
		log:  log.With().Str("component", "docstore-sqlite").Logger(),
	}
	s.hub = docstore.NewHub(s.snapshot, log)

	watcher, err := newWALWatcher(dataDir, dbFile, s.hub.NotifyAll, s.log)
	if err != nil {
		// Cross-process change detection is best-effort; in-process
		// subscriptions still work without it.
		s.log.Warn().Err(err).Msg("wal watcher unavailable")
	} else {
		s.watcher = watcher
	}

	return s, nil
}

// Insert creates a document.
func (s *Store) Insert(ctx context.Context, collection, id string, data map[string]any) error {
	norm, err := docstore.Normalize(data)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(norm)
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO NOTHING`,
		collection, id, string(raw), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return fmt.Errorf("insert %s/%s: %w", collection, id, docstore.ErrExists)
	}

	s.hub.Notify(collection)
	return nil
}

// Get returns a document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	var raw string
	err := s.conn.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	if err != nil {
		return docstore.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return decodeRow(id, raw)
}

// Patch merges fields into an existing document inside a transaction.
func (s *Store) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	err := s.withDoc(ctx, collection, id, func(data map[string]any) error {
		norm, err := docstore.Normalize(fields)
		if err != nil {
			return err
		}
		merged, ok := norm.(map[string]any)
		if !ok {
			return nil
		}
		for k, v := range merged {
			data[k] = v
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, id, err)
	}

	s.hub.Notify(collection)
	return nil
}

// Union appends values to an array field with set semantics.
func (s *Store) Union(ctx context.Context, collection, id, field string, values ...any) error {
	err := s.withDoc(ctx, collection, id, func(data map[string]any) error {
		arr, _ := data[field].([]any)
		merged, err := docstore.UnionValues(arr, values)
		if err != nil {
			return err
		}
		data[field] = merged
		return nil
	})
	if err != nil {
		return fmt.Errorf("union %s/%s: %w", collection, id, err)
	}

	s.hub.Notify(collection)
	return nil
}

// Delete removes a document. Missing documents are not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.conn.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}

	s.hub.Notify(collection)
	return nil
}

// Find returns all documents matching the filter.
func (s *Store) Find(ctx context.Context, collection string, f docstore.Filter) ([]docstore.Document, error) {
	return s.snapshot(collection, f)
}

// Watch establishes a live snapshot subscription.
func (s *Store) Watch(ctx context.Context, collection string, f docstore.Filter) (*docstore.Subscription, error) {
	return s.hub.Subscribe(ctx, collection, f)
}

// Close stops the watcher, cancels subscriptions, and closes the database.
func (s *Store) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.hub.Close()
	return s.conn.Close()
}

// withDoc runs a read-modify-write of a single document in a transaction.
func (s *Store) withDoc(ctx context.Context, collection, id string, fn func(data map[string]any) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.ErrNotFound
	}
	if err != nil {
		return err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}

	if err := fn(data); err != nil {
		return err
	}

	updated, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(updated), time.Now().UnixNano(), collection, id); err != nil {
		return err
	}

	return tx.Commit()
}

// snapshot is the hub's read path: scan the collection, filter in Go.
func (s *Store) snapshot(collection string, f docstore.Filter) ([]docstore.Document, error) {
	rows, err := s.conn.Query(
		`SELECT id, data FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer func() { _ = rows.Close() }()

	var docs []docstore.Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("find %s: %w", collection, err)
		}
		doc, err := decodeRow(id, raw)
		if err != nil {
			return nil, err
		}
		if f.Matches(doc) {
			docs = append(docs, doc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	return docs, nil
}

func decodeRow(id, raw string) (docstore.Document, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return docstore.Document{}, fmt.Errorf("decode document %q: %w", id, err)
	}
	return docstore.Document{ID: id, Data: data}, nil
}
