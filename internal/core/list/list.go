// Package list defines the List domain model: a named, owned collection
// of tasks, optionally shared with collaborators by email.
package list

import (
	"errors"
	"time"

	"github.com/tandemlist/tandem/internal/docstore"
)

var (
	// ErrNotFound is returned when a list does not exist.
	ErrNotFound = errors.New("list not found")
	// ErrNotOwner is returned when an owner-only action is attempted by
	// someone else. Checked before any mutation is issued.
	ErrNotOwner = errors.New("only the list owner may do this")
)

// List is the stored list document. SharedWith holds collaborator emails
// as an unordered set; the owner is never a member of it.
type List struct {
	ID         string    `json:"-"`
	Title      string    `json:"title"`
	OwnerID    string    `json:"owner"`
	SharedWith []string  `json:"sharedWith"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SharedWithContains reports whether email is in the collaborator set.
func (l List) SharedWithContains(email string) bool {
	for _, e := range l.SharedWith {
		if e == email {
			return true
		}
	}
	return false
}

// WithoutCollaborator returns the collaborator set minus email.
func (l List) WithoutCollaborator(email string) []string {
	out := make([]string, 0, len(l.SharedWith))
	for _, e := range l.SharedWith {
		if e != email {
			out = append(out, e)
		}
	}
	return out
}

// FromDoc decodes a stored document into a List.
func FromDoc(doc docstore.Document) (List, error) {
	var l List
	if err := doc.Decode(&l); err != nil {
		return List{}, err
	}
	l.ID = doc.ID
	if l.SharedWith == nil {
		l.SharedWith = []string{}
	}
	return l, nil
}

// Fields encodes the list for storage.
func (l List) Fields() (map[string]any, error) {
	return docstore.Encode(l)
}
