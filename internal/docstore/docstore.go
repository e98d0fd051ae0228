// Package docstore defines the replicated document store surface consumed
// by the rest of the system: point reads, inserts, atomic field patches,
// set-union array appends, deletes, filtered finds, and push-based
// snapshot subscriptions. Consistency is last-write-wins at document
// granularity; the store applies no native ordering, so consumers sort
// and derive client-side.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrExists is returned when inserting a document id that is already taken.
	ErrExists = errors.New("document already exists")
	// ErrClosed is returned when operating on a closed store.
	ErrClosed = errors.New("store is closed")
)

// Document is a single stored record. Data holds JSON-normalized values
// (string, float64, bool, nil, []any, map[string]any).
type Document struct {
	ID   string
	Data map[string]any
}

// Decode unmarshals the document data into dest. The document id is not
// part of Data; callers assign it separately.
func (d Document) Decode(dest any) error {
	b, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", d.ID, err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("decode document %q: %w", d.ID, err)
	}
	return nil
}

// Encode converts a domain value into a normalized field map suitable for
// Insert or Patch.
func Encode(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("normalize fields: %w", err)
	}
	return data, nil
}

// Normalize converts an arbitrary JSON-marshalable value into the
// canonical type set stored in Document.Data. Backends normalize every
// written value so that filter matching compares like with like.
func Normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	return out, nil
}

// Store is the interface to the replicated document store. Mutations are
// atomic per document; there are no multi-document transactions and no
// optimistic-concurrency version checks.
type Store interface {
	// Insert creates a document. Returns ErrExists if the id is taken.
	Insert(ctx context.Context, collection, id string, data map[string]any) error

	// Get returns a document by id. Returns ErrNotFound if missing.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Patch atomically merges the given fields into a document.
	// Last write wins at whatever field granularity the patch covers.
	// Returns ErrNotFound if the document does not exist.
	Patch(ctx context.Context, collection, id string, fields map[string]any) error

	// Union appends values to an array field, skipping values already
	// present (set semantics). The field is created when absent.
	// Returns ErrNotFound if the document does not exist.
	Union(ctx context.Context, collection, id, field string, values ...any) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Find returns all documents in the collection matching the filter,
	// in no particular order.
	Find(ctx context.Context, collection string, f Filter) ([]Document, error)

	// Watch establishes a live snapshot subscription: the full,
	// deduplicated matching set is delivered once on start and again
	// after every change touching the collection. The subscription is
	// released via ctx cancellation or Subscription.Cancel; callers MUST
	// do one of the two or the subscription leaks for the store's
	// lifetime.
	Watch(ctx context.Context, collection string, f Filter) (*Subscription, error)

	// Close releases the store and cancels all subscriptions.
	Close() error
}
