package tandem

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tandemlist/tandem/internal/core/activity"
	"github.com/tandemlist/tandem/internal/core/identity"
	"github.com/tandemlist/tandem/internal/core/list"
	"github.com/tandemlist/tandem/internal/core/validate"
	"github.com/tandemlist/tandem/internal/docstore"
)

var (
	// ErrShareWithOwner is returned when the owner's own email is shared.
	ErrShareWithOwner = errors.New("cannot share a list with its owner")
	// ErrOwnerCannotLeave is returned when the owner tries to leave their
	// own list. Owners delete; collaborators leave.
	ErrOwnerCannotLeave = errors.New("the owner cannot leave their own list")
	// ErrNotMember is returned when the target email is not in the
	// collaborator set.
	ErrNotMember = errors.New("not a collaborator on this list")
)

// CollabService manages who a list is shared with. Every method takes
// the caller's current view of the list and checks authorization against
// it before touching the store.
type CollabService struct {
	store docstore.Store
	dir   identity.Directory
	acts  *ActivityLog
	log   zerolog.Logger
}

func NewCollabService(store docstore.Store, dir identity.Directory, acts *ActivityLog, log zerolog.Logger) *CollabService {
	return &CollabService{
		store: store,
		dir:   dir,
		acts:  acts,
		log:   log.With().Str("component", "collab").Logger(),
	}
}

// Collaborator is a collaborator email enriched, when possible, with the
// display name from the user directory.
type Collaborator struct {
	Email string
	Name  string
}

// Share grants a collaborator access by email. Only the owner may share.
// Sharing with an email already in the set is a no-op; sharing with the
// owner's own account is rejected.
func (s *CollabService) Share(ctx context.Context, l list.List, email string, sess identity.Session) error {
	if l.OwnerID != sess.User.ID {
		return list.ErrNotOwner
	}
	if err := validate.EmailField("email", email); err != nil {
		return err
	}

	if u, ok, err := s.dir.LookupEmail(ctx, email); err != nil {
		return fmt.Errorf("resolve email: %w", err)
	} else if ok && u.ID == l.OwnerID {
		return ErrShareWithOwner
	}

	if err := s.store.Union(ctx, collectionLists, l.ID, "sharedWith", email); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return list.ErrNotFound
		}
		return fmt.Errorf("share list: %w", err)
	}

	s.acts.Record(ctx, l.ID, fmt.Sprintf("%s shared the list with %s", sess.ActorName(), email), sess)
	s.log.Info().Str("list", l.ID).Msg("collaborator added")
	return nil
}

// Remove revokes a collaborator's access. Only the owner may remove.
// The history entry leads with the removed person's name so the feed
// attributes it to them, not to the owner who clicked the button.
func (s *CollabService) Remove(ctx context.Context, l list.List, email string, sess identity.Session) error {
	if l.OwnerID != sess.User.ID {
		return list.ErrNotOwner
	}
	if !l.SharedWithContains(email) {
		return ErrNotMember
	}

	err := s.store.Patch(ctx, collectionLists, l.ID, map[string]any{
		"sharedWith": l.WithoutCollaborator(email),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return list.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove collaborator: %w", err)
	}

	removed := email
	if u, ok, err := s.dir.LookupEmail(ctx, email); err == nil && ok && u.Name != "" {
		removed = u.Name
	}
	details := fmt.Sprintf("%s was removed from the list", removed)
	s.acts.RecordAction(ctx, l.ID, activity.ActionRemoved, details, sess)
	s.log.Info().Str("list", l.ID).Msg("collaborator removed")
	return nil
}

// Leave drops the session user from a list they were invited to.
func (s *CollabService) Leave(ctx context.Context, l list.List, sess identity.Session) error {
	if l.OwnerID == sess.User.ID {
		return ErrOwnerCannotLeave
	}
	if !l.SharedWithContains(sess.User.Email) {
		return ErrNotMember
	}

	err := s.store.Patch(ctx, collectionLists, l.ID, map[string]any{
		"sharedWith": l.WithoutCollaborator(sess.User.Email),
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return list.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("leave list: %w", err)
	}

	details := fmt.Sprintf("%s left the list", sess.ActorName())
	s.acts.RecordAction(ctx, l.ID, activity.ActionLeft, details, sess)
	return nil
}

// Collaborators resolves the collaborator set against the directory at
// read time. Emails without a profile come back with an empty name; the
// listing never fails just because a lookup did.
func (s *CollabService) Collaborators(ctx context.Context, l list.List) []Collaborator {
	out := make([]Collaborator, 0, len(l.SharedWith))
	for _, email := range l.SharedWith {
		c := Collaborator{Email: email}
		if u, ok, err := s.dir.LookupEmail(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("list", l.ID).Msg("collaborator lookup failed")
		} else if ok {
			c.Name = u.Name
		}
		out = append(out, c)
	}
	return out
}
