package token

import "fmt"

// ErrInvalidToken is returned for tokens that are missing, expired, or
// revoked. The Reason is safe to show to the caller.
type ErrInvalidToken struct {
	Reason string
}

func (e ErrInvalidToken) Error() string {
	return fmt.Sprintf("invalid token: %s", e.Reason)
}

// ErrInvalidTokenCategory is returned when a token verifies correctly but
// carries the wrong category for the operation.
type ErrInvalidTokenCategory struct {
	Category string
}

func (e ErrInvalidTokenCategory) Error() string {
	return fmt.Sprintf("wrong token category: %s", e.Category)
}

// ErrTokenMalformed is returned when a token's signature does not verify or
// its structure cannot be parsed. Distinct from expiry: an expired token is a
// first-class outcome, not a malformed one.
type ErrTokenMalformed struct {
	Err error
}

func (e ErrTokenMalformed) Error() string {
	return fmt.Sprintf("malformed token: %v", e.Err)
}

func (e ErrTokenMalformed) Unwrap() error {
	return e.Err
}
