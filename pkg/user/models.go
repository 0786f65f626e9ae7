package user

import (
	"github.com/google/uuid"
)

// Role is the access level stored on an identity record.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the identity record. Password holds the bcrypt hash, never the
// plain text; for OAuth-registered accounts it is a synthesized placeholder.
type User struct {
	ID       uuid.UUID `json:"user_id"`
	Email    string    `json:"user_email"`
	Password string    `json:"-"`
	Role     Role      `json:"role"`
	Name     string    `json:"user_name,omitempty"`
	Alias    string    `json:"alias,omitempty"`
	Phone    string    `json:"phone_num,omitempty"`
}

// WithoutCredentials returns a copy safe to attach to a request context or
// serialize in a response.
func (u User) WithoutCredentials() User {
	u.Password = ""
	return u
}
