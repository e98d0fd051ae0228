package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandemlist/tandem/internal/docstore"
)

func TestStatus_Next(t *testing.T) {
	tests := []struct {
		from Status
		want Status
	}{
		{StatusPending, StatusInProgress},
		{StatusInProgress, StatusReview},
		{StatusReview, StatusCompleted},
		{StatusCompleted, StatusPending},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Next())
		})
	}
}

func TestStatus_NextCyclesBackToStart(t *testing.T) {
	s := StatusPending
	for i := 0; i < 4; i++ {
		s = s.Next()
	}
	assert.Equal(t, StatusPending, s)
}

func TestStatus_NextUnknownResetsToPending(t *testing.T) {
	assert.Equal(t, StatusPending, Status("archived").Next())
	assert.Equal(t, StatusPending, Status("").Next())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusReview.Valid())
	assert.False(t, Status("done").Valid())
}

func TestTask_CompletedSubtasks(t *testing.T) {
	task := Task{Subtasks: []Subtask{
		{ID: "1", Completed: true},
		{ID: "2"},
		{ID: "3", Completed: true},
	}}
	assert.Equal(t, 2, task.CompletedSubtasks())
	assert.Equal(t, 0, Task{}.CompletedSubtasks())
}

func TestFromDoc_RoundTrip(t *testing.T) {
	orig := Task{
		ID:          "t1",
		ListID:      "l1",
		Title:       "Write report",
		Description: "quarterly numbers",
		Status:      StatusInProgress,
		AssignedTo:  "u1",
		Subtasks:    []Subtask{{ID: "s1", Title: "outline", Completed: true}},
	}

	fields, err := orig.Fields()
	require.NoError(t, err)

	got, err := FromDoc(docstore.Document{ID: "t1", Data: fields})
	require.NoError(t, err)
	assert.Equal(t, orig.Title, got.Title)
	assert.Equal(t, orig.Status, got.Status)
	assert.Equal(t, orig.Subtasks, got.Subtasks)
	assert.Equal(t, "t1", got.ID)
}
