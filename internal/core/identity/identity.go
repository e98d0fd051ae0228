// Package identity models the current user as supplied by an external
// identity provider. Sign-in/out and credential handling live outside this
// module; services only ever see a Session value passed explicitly into
// each call.
package identity

import "context"

// User is the profile shape stored in the users collection and returned
// by the identity provider.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Session carries the caller's identity through a service call. There is
// no ambient current-user global; every mutating operation receives one.
type Session struct {
	User User
}

// ActorName is the name written into activity messages. Falls back to
// "Someone" when the profile has no display name.
func (s Session) ActorName() string {
	if s.User.Name != "" {
		return s.User.Name
	}
	return "Someone"
}

// ViewerName is the name the activity feed matches entries against.
// Falls back to "User" when the profile has no display name. The actor
// and viewer fallbacks differ on purpose; the feed heuristic depends on
// both.
func (s Session) ViewerName() string {
	if s.User.Name != "" {
		return s.User.Name
	}
	return "User"
}

// Directory resolves user profiles at read time. Lookups are best-effort:
// a missing profile is reported via ok=false, not an error.
type Directory interface {
	// Lookup resolves a profile by user id.
	Lookup(ctx context.Context, id string) (User, bool, error)

	// LookupEmail resolves a profile by an equality match on the
	// profile-email index.
	LookupEmail(ctx context.Context, email string) (User, bool, error)
}
