package user

import "fmt"

// ErrUserNotFound is returned when no identity record matches the lookup.
type ErrUserNotFound struct {
	Email string
}

func (e ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.Email)
}

// ErrEmailAlreadyExists is returned when creating a record with an email that
// is already registered.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}
