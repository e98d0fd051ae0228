package tandem

import (
	"context"
	"errors"
	"fmt"

	"github.com/tandemlist/tandem/internal/core/identity"
	"github.com/tandemlist/tandem/internal/docstore"
)

// StoreDirectory resolves user profiles from the users collection.
type StoreDirectory struct {
	store docstore.Store
}

var _ identity.Directory = (*StoreDirectory)(nil)

func NewStoreDirectory(store docstore.Store) *StoreDirectory {
	return &StoreDirectory{store: store}
}

func (d *StoreDirectory) Lookup(ctx context.Context, id string) (identity.User, bool, error) {
	doc, err := d.store.Get(ctx, collectionUsers, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return identity.User{}, false, nil
	}
	if err != nil {
		return identity.User{}, false, fmt.Errorf("lookup user: %w", err)
	}
	u, err := decodeUser(doc)
	if err != nil {
		return identity.User{}, false, err
	}
	return u, true, nil
}

func (d *StoreDirectory) LookupEmail(ctx context.Context, email string) (identity.User, bool, error) {
	docs, err := d.store.Find(ctx, collectionUsers, docstore.Where(docstore.Eq("email", email)))
	if err != nil {
		return identity.User{}, false, fmt.Errorf("lookup user by email: %w", err)
	}
	if len(docs) == 0 {
		return identity.User{}, false, nil
	}
	u, err := decodeUser(docs[0])
	if err != nil {
		return identity.User{}, false, err
	}
	return u, true, nil
}

// EnsureProfile creates or refreshes the user's own profile document so
// other sessions can resolve their name and email.
func (d *StoreDirectory) EnsureProfile(ctx context.Context, u identity.User) error {
	fields := map[string]any{
		"name":  u.Name,
		"email": u.Email,
	}
	err := d.store.Insert(ctx, collectionUsers, u.ID, fields)
	if errors.Is(err, docstore.ErrExists) {
		err = d.store.Patch(ctx, collectionUsers, u.ID, fields)
	}
	if err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

func decodeUser(doc docstore.Document) (identity.User, error) {
	var u identity.User
	if err := doc.Decode(&u); err != nil {
		return identity.User{}, fmt.Errorf("decode user: %w", err)
	}
	u.ID = doc.ID
	return u, nil
}
