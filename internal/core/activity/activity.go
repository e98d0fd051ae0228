// Package activity defines the append-only audit record written alongside
// every successful mutation. Records are immutable: they are never
// updated, and the only deletion path is a list's cascading delete.
//
// Two record shapes coexist in storage. Older records carry a single
// free-text Message; newer ones carry the actor fields plus a structured
// Action and Details pair. Consumers must accept both.
package activity

import (
	"time"

	"github.com/tandemlist/tandem/internal/docstore"
)

// Known structured actions.
const (
	ActionRenamed = "renamed"
	ActionRemoved = "removed"
	ActionLeft    = "left"
)

// Activity is a single audit entry. Timestamp is canonically stored as an
// RFC3339 string at the store boundary.
type Activity struct {
	ID        string    `json:"-"`
	ListID    string    `json:"listId"`
	Message   string    `json:"message,omitempty"`
	UserName  string    `json:"userName,omitempty"`
	UserEmail string    `json:"userEmail,omitempty"`
	Action    string    `json:"action,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Text returns the displayable text of the record regardless of shape:
// the legacy message when present, else the structured details.
func (a Activity) Text() string {
	if a.Message != "" {
		return a.Message
	}
	return a.Details
}

// FromDoc decodes a stored document into an Activity.
func FromDoc(doc docstore.Document) (Activity, error) {
	var a Activity
	if err := doc.Decode(&a); err != nil {
		return Activity{}, err
	}
	a.ID = doc.ID
	return a, nil
}

// Fields encodes the activity for storage.
func (a Activity) Fields() (map[string]any, error) {
	return docstore.Encode(a)
}
