package authn

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/cinecore/cine-auth/pkg/user"
)

// Kind tags how the principal's session was established. It is a closed set,
// decided once when the middleware resolves the token category; downstream
// code switches on the tag instead of re-inspecting the token.
type Kind string

const (
	// KindLocal marks a session from a credential signin (category "access").
	KindLocal Kind = "local"
	// KindOAuth marks a session from a third-party login (category "OAuth").
	KindOAuth Kind = "oauth"
)

// Principal is the authenticated identity bound to a request. It is built
// fresh per request from the identity record and discarded at request end.
type Principal struct {
	Kind  Kind
	ID    uuid.UUID
	Email string
	Role  user.Role
}

func (p Principal) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", string(p.Kind)),
		slog.String("email", p.Email),
		slog.String("role", string(p.Role)),
	)
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == user.RoleAdmin
}
