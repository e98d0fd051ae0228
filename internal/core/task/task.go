// Package task defines the Task domain model and its status lifecycle.
package task

import (
	"errors"
	"time"

	"github.com/tandemlist/tandem/internal/docstore"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// Status is the lifecycle state of a task.
type Status string

// The status ring. Advancing from completed wraps back to pending; there
// are no direct jumps between arbitrary states and no per-transition
// guards.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
)

// Next returns the following status on the ring. Unknown values restart
// at pending.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusReview
	case StatusReview:
		return StatusCompleted
	case StatusCompleted:
		return StatusPending
	default:
		return StatusPending
	}
}

// Valid reports whether s is one of the four lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// Subtask is an embedded checklist item. It lives inside exactly one Task
// and is never independently addressable. Ids are locally generated and
// best-effort unique.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Task is the stored task document.
type Task struct {
	ID          string    `json:"-"`
	ListID      string    `json:"listId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	AssignedTo  string    `json:"assignedTo,omitempty"`
	Subtasks    []Subtask `json:"subtasks"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CompletedSubtasks counts the completed entries.
func (t Task) CompletedSubtasks() int {
	n := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			n++
		}
	}
	return n
}

// FromDoc decodes a stored document into a Task.
func FromDoc(doc docstore.Document) (Task, error) {
	var t Task
	if err := doc.Decode(&t); err != nil {
		return Task{}, err
	}
	t.ID = doc.ID
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	return t, nil
}

// Fields encodes the task for storage.
func (t Task) Fields() (map[string]any, error) {
	return docstore.Encode(t)
}
