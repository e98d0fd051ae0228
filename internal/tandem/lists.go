package tandem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tandemlist/tandem/internal/core/activity"
	"github.com/tandemlist/tandem/internal/core/identity"
	"github.com/tandemlist/tandem/internal/core/list"
	"github.com/tandemlist/tandem/internal/core/validate"
	"github.com/tandemlist/tandem/internal/docstore"
)

// ListService owns the lifecycle of lists: creation, renaming, deletion
// with its cascade, and the live view of every list the session can see.
type ListService struct {
	store docstore.Store
	acts  *ActivityLog
	log   zerolog.Logger
}

func NewListService(store docstore.Store, acts *ActivityLog, log zerolog.Logger) *ListService {
	return &ListService{
		store: store,
		acts:  acts,
		log:   log.With().Str("component", "lists").Logger(),
	}
}

// Create makes a new list owned by the session user. The title is
// stored as given, whitespace included.
func (s *ListService) Create(ctx context.Context, title string, sess identity.Session) (list.List, error) {
	if err := validate.TitleField("title", title); err != nil {
		return list.List{}, err
	}

	l := list.List{
		ID:         uuid.NewString(),
		Title:      title,
		OwnerID:    sess.User.ID,
		SharedWith: []string{},
		CreatedAt:  time.Now().UTC(),
	}

	fields, err := l.Fields()
	if err != nil {
		return list.List{}, fmt.Errorf("encode list: %w", err)
	}
	if err := s.store.Insert(ctx, collectionLists, l.ID, fields); err != nil {
		return list.List{}, fmt.Errorf("insert list: %w", err)
	}

	s.acts.Record(ctx, l.ID, fmt.Sprintf("%s created the list", sess.ActorName()), sess)
	s.log.Info().Str("list", l.ID).Msg("list created")
	return l, nil
}

// Rename sets a new title. Blank input is rejected before any mutation.
func (s *ListService) Rename(ctx context.Context, listID, title string, sess identity.Session) error {
	if err := validate.TitleField("title", title); err != nil {
		return err
	}
	title = strings.TrimSpace(title)

	err := s.store.Patch(ctx, collectionLists, listID, map[string]any{"title": title})
	if errors.Is(err, docstore.ErrNotFound) {
		return list.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("rename list: %w", err)
	}

	details := fmt.Sprintf("%s renamed the list to %q", sess.ActorName(), title)
	s.acts.RecordAction(ctx, listID, activity.ActionRenamed, details, sess)
	return nil
}

// Get fetches a single list by id.
func (s *ListService) Get(ctx context.Context, listID string) (list.List, error) {
	doc, err := s.store.Get(ctx, collectionLists, listID)
	if errors.Is(err, docstore.ErrNotFound) {
		return list.List{}, list.ErrNotFound
	}
	if err != nil {
		return list.List{}, fmt.Errorf("get list: %w", err)
	}
	return list.FromDoc(doc)
}

// Delete removes a list along with its tasks and activity history. Only
// the owner may delete. The cascade is not atomic: each phase runs to
// completion even when individual deletes fail, and every failure is
// reported together so a retry can finish the job.
func (s *ListService) Delete(ctx context.Context, l list.List, sess identity.Session) error {
	if l.OwnerID != sess.User.ID {
		return list.ErrNotOwner
	}

	var errs []error
	errs = append(errs, s.deleteWhere(ctx, collectionTasks, docstore.Where(docstore.Eq("listId", l.ID)))...)
	errs = append(errs, s.deleteWhere(ctx, collectionActivities, docstore.Where(docstore.Eq("listId", l.ID)))...)
	if err := s.store.Delete(ctx, collectionLists, l.ID); err != nil {
		errs = append(errs, fmt.Errorf("delete list %s: %w", l.ID, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("cascade delete: %w", errors.Join(errs...))
	}
	s.log.Info().Str("list", l.ID).Msg("list deleted")
	return nil
}

// deleteWhere removes every matching document in a collection,
// collecting failures instead of stopping at the first one.
func (s *ListService) deleteWhere(ctx context.Context, collection string, f docstore.Filter) []error {
	docs, err := s.store.Find(ctx, collection, f)
	if err != nil {
		return []error{fmt.Errorf("find %s: %w", collection, err)}
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, d := range docs {
		g.Go(func() error {
			if err := s.store.Delete(ctx, collection, d.ID); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("delete %s/%s: %w", collection, d.ID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// Watch delivers every list the session user owns or is a collaborator
// on, newest first, whenever the set or any member changes.
func (s *ListService) Watch(ctx context.Context, sess identity.Session) (*View[list.List], error) {
	f := docstore.Or(
		docstore.Eq("owner", sess.User.ID),
		docstore.Contains("sharedWith", sess.User.Email),
	)
	sub, err := s.store.Watch(ctx, collectionLists, f)
	if err != nil {
		return nil, fmt.Errorf("watch lists: %w", err)
	}
	return newView(sub, list.FromDoc, func(a, b list.List) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}, s.log), nil
}

// Selection tracks which list the user is looking at. It lives on the
// client side of the live view: when the selected list disappears from
// a snapshot the selection falls back to the first remaining list.
type Selection struct {
	ID string
}

// Select picks a list explicitly.
func (sel Selection) Select(id string) Selection {
	return Selection{ID: id}
}

// Apply reconciles the selection with the latest snapshot.
func (sel Selection) Apply(lists []list.List) Selection {
	if sel.ID != "" {
		for _, l := range lists {
			if l.ID == sel.ID {
				return sel
			}
		}
	}
	if len(lists) > 0 {
		return Selection{ID: lists[0].ID}
	}
	return Selection{}
}
