package tandem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tandemlist/tandem/internal/core/identity"
	"github.com/tandemlist/tandem/internal/core/task"
	"github.com/tandemlist/tandem/internal/core/validate"
	"github.com/tandemlist/tandem/internal/docstore"
	"github.com/tandemlist/tandem/pkg/randid"
)

const subtaskIDLength = 12

// TaskService owns tasks and their subtasks within a list.
type TaskService struct {
	store docstore.Store
	acts  *ActivityLog
	log   zerolog.Logger
}

func NewTaskService(store docstore.Store, acts *ActivityLog, log zerolog.Logger) *TaskService {
	return &TaskService{
		store: store,
		acts:  acts,
		log:   log.With().Str("component", "tasks").Logger(),
	}
}

// Create adds a new task to a list. New tasks start pending, assigned
// to their creator, with no subtasks.
func (s *TaskService) Create(ctx context.Context, listID, title, description string, sess identity.Session) (task.Task, error) {
	if err := validate.TitleField("title", title); err != nil {
		return task.Task{}, err
	}

	t := task.Task{
		ID:          uuid.NewString(),
		ListID:      listID,
		Title:       title,
		Description: description,
		Status:      task.StatusPending,
		AssignedTo:  sess.User.ID,
		Subtasks:    []task.Subtask{},
		CreatedAt:   time.Now().UTC(),
	}

	fields, err := t.Fields()
	if err != nil {
		return task.Task{}, fmt.Errorf("encode task: %w", err)
	}
	if err := s.store.Insert(ctx, collectionTasks, t.ID, fields); err != nil {
		return task.Task{}, fmt.Errorf("insert task: %w", err)
	}

	s.acts.Record(ctx, listID, fmt.Sprintf("%s added %q", sess.ActorName(), title), sess)
	return t, nil
}

// Get fetches a single task.
func (s *TaskService) Get(ctx context.Context, taskID string) (task.Task, error) {
	doc, err := s.store.Get(ctx, collectionTasks, taskID)
	if errors.Is(err, docstore.ErrNotFound) {
		return task.Task{}, task.ErrNotFound
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task.FromDoc(doc)
}

// Advance moves a task to the next status in the cycle: pending,
// in-progress, review, completed, and back around to pending.
func (s *TaskService) Advance(ctx context.Context, taskID string, sess identity.Session) (task.Status, error) {
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return "", err
	}

	next := t.Status.Next()
	if err := s.patch(ctx, taskID, map[string]any{"status": string(next)}); err != nil {
		return "", err
	}

	s.acts.Record(ctx, t.ListID, fmt.Sprintf("%s marked %q as %s", sess.ActorName(), t.Title, next), sess)
	return next, nil
}

// Edit replaces a task's title and description. A blank title leaves
// the task untouched. The history entry names the task by its title
// before the edit, so the trail reads in order.
func (s *TaskService) Edit(ctx context.Context, taskID, title, description string, sess identity.Session) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	t, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}

	err = s.patch(ctx, taskID, map[string]any{
		"title":       title,
		"description": description,
	})
	if err != nil {
		return err
	}

	s.acts.Record(ctx, t.ListID, fmt.Sprintf("%s edited %q", sess.ActorName(), t.Title), sess)
	return nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, taskID string, sess identity.Session) error {
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, collectionTasks, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.acts.Record(ctx, t.ListID, fmt.Sprintf("%s deleted %q", sess.ActorName(), t.Title), sess)
	return nil
}

// AddSubtask appends a new unchecked subtask. Blank titles are ignored.
func (s *TaskService) AddSubtask(ctx context.Context, taskID, title string, sess identity.Session) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	t, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}

	st := task.Subtask{ID: randid.Generate(subtaskIDLength), Title: title}
	if err := s.patchSubtasks(ctx, taskID, append(t.Subtasks, st)); err != nil {
		return err
	}

	s.acts.Record(ctx, t.ListID, fmt.Sprintf("%s added subtask %q to %q", sess.ActorName(), title, t.Title), sess)
	return nil
}

// ToggleSubtask flips a subtask's completed flag. Toggling is routine
// enough that it leaves no history entry.
func (s *TaskService) ToggleSubtask(ctx context.Context, taskID, subtaskID string) error {
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}

	subs := make([]task.Subtask, len(t.Subtasks))
	copy(subs, t.Subtasks)
	for i := range subs {
		if subs[i].ID == subtaskID {
			subs[i].Completed = !subs[i].Completed
		}
	}
	return s.patchSubtasks(ctx, taskID, subs)
}

// DeleteSubtask removes a subtask from a task.
func (s *TaskService) DeleteSubtask(ctx context.Context, taskID, subtaskID string, sess identity.Session) error {
	t, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}

	subs := make([]task.Subtask, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		if st.ID != subtaskID {
			subs = append(subs, st)
		}
	}
	if err := s.patchSubtasks(ctx, taskID, subs); err != nil {
		return err
	}

	s.acts.Record(ctx, t.ListID, fmt.Sprintf("%s removed a subtask from %q", sess.ActorName(), t.Title), sess)
	return nil
}

// Watch delivers the tasks of a list, newest first, on every change.
func (s *TaskService) Watch(ctx context.Context, listID string) (*View[task.Task], error) {
	sub, err := s.store.Watch(ctx, collectionTasks, docstore.Where(docstore.Eq("listId", listID)))
	if err != nil {
		return nil, fmt.Errorf("watch tasks: %w", err)
	}
	return newView(sub, task.FromDoc, func(a, b task.Task) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}, s.log), nil
}

func (s *TaskService) patch(ctx context.Context, taskID string, fields map[string]any) error {
	err := s.store.Patch(ctx, collectionTasks, taskID, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return task.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("patch task: %w", err)
	}
	return nil
}

func (s *TaskService) patchSubtasks(ctx context.Context, taskID string, subs []task.Subtask) error {
	normalized, err := docstore.Normalize(subs)
	if err != nil {
		return fmt.Errorf("encode subtasks: %w", err)
	}
	return s.patch(ctx, taskID, map[string]any{"subtasks": normalized})
}
