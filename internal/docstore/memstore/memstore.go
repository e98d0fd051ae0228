// Package memstore is an in-memory docstore backend. It provides the full
// store surface, including push snapshot subscriptions, with no
// persistence. Used by tests and as the zero-setup local mode.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tandemlist/tandem/internal/docstore"
)

// Store implements docstore.Store over process memory.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	closed      bool

	hub *docstore.Hub
	log zerolog.Logger
}

var _ docstore.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New(log zerolog.Logger) *Store {
	s := &Store{
		collections: make(map[string]map[string]map[string]any),
		log:         log.With().Str("component", "memstore").Logger(),
	}
	s.hub = docstore.NewHub(s.snapshot, log)
	return s
}

// Insert creates a document.
func (s *Store) Insert(ctx context.Context, collection, id string, data map[string]any) error {
	norm, err := normalize(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return docstore.ErrClosed
	}
	col := s.collections[collection]
	if col == nil {
		col = make(map[string]map[string]any)
		s.collections[collection] = col
	}
	if _, ok := col[id]; ok {
		s.mu.Unlock()
		return fmt.Errorf("insert %s/%s: %w", collection, id, docstore.ErrExists)
	}
	col[id] = norm
	s.mu.Unlock()

	s.hub.Notify(collection)
	return nil
}

// Get returns a document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.collections[collection][id]
	if !ok {
		return docstore.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	copied, err := normalize(data)
	if err != nil {
		return docstore.Document{}, err
	}
	return docstore.Document{ID: id, Data: copied}, nil
}

// Patch merges fields into an existing document.
func (s *Store) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	norm, err := normalize(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return docstore.ErrClosed
	}
	data, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("patch %s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	for k, v := range norm {
		data[k] = v
	}
	s.mu.Unlock()

	s.hub.Notify(collection)
	return nil
}

// Union appends values to an array field with set semantics.
func (s *Store) Union(ctx context.Context, collection, id, field string, values ...any) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return docstore.ErrClosed
	}
	data, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("union %s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	arr, _ := data[field].([]any)
	merged, err := docstore.UnionValues(arr, values)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("union %s/%s: %w", collection, id, err)
	}
	data[field] = merged
	s.mu.Unlock()

	s.hub.Notify(collection)
	return nil
}

// Delete removes a document. Missing documents are not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return docstore.ErrClosed
	}
	delete(s.collections[collection], id)
	s.mu.Unlock()

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

// Close cancels all subscriptions and drops the data.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.collections = make(map[string]map[string]map[string]any)
	s.mu.Unlock()

	s.hub.Close()
	return nil
}

// snapshot is the hub's read path. Returned documents are deep copies.
func (s *Store) snapshot(collection string, f docstore.Filter) ([]docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := s.collections[collection]
	docs := make([]docstore.Document, 0, len(col))
	for id, data := range col {
		copied, err := normalize(data)
		if err != nil {
			return nil, err
		}
		doc := docstore.Document{ID: id, Data: copied}
		if f.Matches(doc) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// normalize deep-copies a field map into canonical JSON types.
func normalize(data map[string]any) (map[string]any, error) {
	out, err := docstore.Normalize(data)
	if err != nil {
		return nil, err
	}
	m, ok := out.(map[string]any)
	if !ok {
		m = map[string]any{}
	}
	return m, nil
}
