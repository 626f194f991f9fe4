package identity

import (
	"regexp"

	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
)

// guestUsernamePattern matches the ephemeral numeric usernames handed
// out to unauthenticated participants.
var guestUsernamePattern = regexp.MustCompile(`^[0-9]{7}$`)

// Identity is the resolved caller of a request. Two variants exist and
// must never be unified:
//
//   - Authenticated: ID set, Username from the role store, Role user|admin.
//   - Guest: ID nil, Username a self-asserted 7-digit string, no role.
//
// Guests are a deliberate weak-trust model: they own content only by
// string equality on a username that is never persisted and can never
// hold the admin role.
type Identity struct {
	ID       *uuid.UUID  `json:"id,omitempty"`
	Username string      `json:"username"`
	Role     models.Role `json:"role,omitempty"`
	IsGuest  bool        `json:"is_guest"`
}

// Authenticated builds the identity for a registered user.
func Authenticated(id uuid.UUID, username string, role models.Role) Identity {
	return Identity{
		ID:       &id,
		Username: username,
		Role:     role,
	}
}

// Guest builds a guest identity from a self-asserted username. Returns
// false if the username does not match the guest pattern.
func Guest(username string) (Identity, bool) {
	if !guestUsernamePattern.MatchString(username) {
		return Identity{}, false
	}
	return Identity{Username: username, IsGuest: true}, true
}

// Anonymous is a reader with no identity at all: it can only see
// universally public entities and can never write.
func Anonymous() Identity {
	return Identity{}
}

// IsAdmin reports whether the identity carries the admin role. Guests
// have no role and always fail this check.
func (i Identity) IsAdmin() bool {
	return !i.IsGuest && i.Role == models.RoleAdmin
}

// IsResolved reports whether the identity can act as a writer: either
// an authenticated user or a guest with a valid username.
func (i Identity) IsResolved() bool {
	return i.Username != ""
}

// IsGuestUsername reports whether a raw username string matches the
// guest pattern. Used by registration to keep the numeric namespace
// reserved for guests.
func IsGuestUsername(username string) bool {
	return guestUsernamePattern.MatchString(username)
}
