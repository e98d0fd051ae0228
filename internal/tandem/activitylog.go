package tandem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/tandemlist/tandem/internal/core/activity"
	"github.com/tandemlist/tandem/internal/core/feed"
	"github.com/tandemlist/tandem/internal/core/identity"
	"github.com/tandemlist/tandem/internal/docstore"
)

// ActivityLog is the append-only history of everything done to a list.
// Entries are never edited or deleted; a failure to append is reported
// to the caller but never blocks the operation that produced it.
type ActivityLog struct {
	store docstore.Store
	log   zerolog.Logger
}

func NewActivityLog(store docstore.Store, log zerolog.Logger) *ActivityLog {
	return &ActivityLog{
		store: store,
		log:   log.With().Str("component", "activitylog").Logger(),
	}
}

// Append records a free-form message entry.
func (a *ActivityLog) Append(ctx context.Context, listID, message string, sess identity.Session) error {
	return a.append(ctx, activity.Activity{
		ListID:    listID,
		Message:   message,
		UserName:  sess.User.Name,
		UserEmail: sess.User.Email,
		Timestamp: time.Now().UTC(),
	})
}

// AppendAction records a structured entry whose display text lives in
// Details and whose kind is carried by Action.
func (a *ActivityLog) AppendAction(ctx context.Context, listID, action, details string, sess identity.Session) error {
	return a.append(ctx, activity.Activity{
		ListID:    listID,
		UserName:  sess.User.Name,
		UserEmail: sess.User.Email,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

func (a *ActivityLog) append(ctx context.Context, act activity.Activity) error {
	id := ulid.Make().String()
	fields, err := act.Fields()
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	if err := a.store.Insert(ctx, collectionActivities, id, fields); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// Record is the best-effort form used by the services: the mutation the
// entry describes has already happened, so an append failure is logged
// and swallowed rather than surfaced as a failure of the whole call.
func (a *ActivityLog) Record(ctx context.Context, listID, message string, sess identity.Session) {
	if err := a.Append(ctx, listID, message, sess); err != nil {
		a.log.Error().Err(err).Str("list", listID).Msg("activity entry lost")
	}
}

// RecordAction is Record for structured entries.
func (a *ActivityLog) RecordAction(ctx context.Context, listID, action, details string, sess identity.Session) {
	if err := a.AppendAction(ctx, listID, action, details, sess); err != nil {
		a.log.Error().Err(err).Str("list", listID).Str("action", action).Msg("activity entry lost")
	}
}

// List returns all entries for a list, newest first.
func (a *ActivityLog) List(ctx context.Context, listID string) ([]activity.Activity, error) {
	docs, err := a.store.Find(ctx, collectionActivities, docstore.Where(docstore.Eq("listId", listID)))
	if err != nil {
		return nil, fmt.Errorf("find activities: %w", err)
	}
	acts := make([]activity.Activity, 0, len(docs))
	for _, d := range docs {
		act, err := activity.FromDoc(d)
		if err != nil {
			a.log.Warn().Err(err).Str("doc", d.ID).Msg("dropping undecodable activity")
			continue
		}
		acts = append(acts, act)
	}
	sortActivities(acts)
	return acts, nil
}

// Watch delivers the full activity history for a list, newest first,
// every time it changes.
func (a *ActivityLog) Watch(ctx context.Context, listID string) (*View[activity.Activity], error) {
	sub, err := a.store.Watch(ctx, collectionActivities, docstore.Where(docstore.Eq("listId", listID)))
	if err != nil {
		return nil, fmt.Errorf("watch activities: %w", err)
	}
	return newView(sub, activity.FromDoc, newerActivity, a.log), nil
}

// Feed loads a list's history and assembles the viewer's personalized
// feed. keep bounds the entries considered, newest first; zero keeps
// everything.
func (a *ActivityLog) Feed(ctx context.Context, listID string, sess identity.Session, keep int) (feed.Feed, error) {
	acts, err := a.List(ctx, listID)
	if err != nil {
		return feed.Feed{}, err
	}
	if keep > 0 && len(acts) > keep {
		acts = acts[:keep]
	}
	viewer := feed.Viewer{Name: sess.ViewerName(), Email: sess.User.Email}
	return feed.Assemble(acts, viewer, feed.TextAttributor{}), nil
}

func sortActivities(acts []activity.Activity) {
	sort.SliceStable(acts, func(i, j int) bool { return newerActivity(acts[i], acts[j]) })
}

func newerActivity(a, b activity.Activity) bool {
	return a.Timestamp.After(b.Timestamp)
}
