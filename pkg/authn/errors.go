package authn

import "fmt"

// ErrInvalidLogin covers both bad credentials and a malformed login body.
// The two are deliberately indistinguishable to the caller so the response
// does not reveal which credential field was wrong.
type ErrInvalidLogin struct{}

func (e ErrInvalidLogin) Error() string {
	return "invalid email or password"
}

// ErrForbidden is deferred by the middleware when no credential was
// presented. Whether that matters is decided later, by the route's guards.
type ErrForbidden struct {
	Reason string
}

func (e ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Reason)
}

// ErrUnauthorizedUser is returned when an authenticated user attempts an
// action they are not allowed to perform.
type ErrUnauthorizedUser struct {
	Reason string
}

func (e ErrUnauthorizedUser) Error() string {
	return fmt.Sprintf("unauthorized user: %s", e.Reason)
}
