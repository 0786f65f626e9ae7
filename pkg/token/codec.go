package token

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cinecore/cine-auth/pkg/tokenstore"
)

// Claim names shared by every token this service mints.
const (
	ClaimUserEmail = "userEmail"
	ClaimUserID    = "userId"
	ClaimRole      = "role"
	ClaimCategory  = "category"
)

// Codec mints and decodes HS256-signed tokens. The signing secret is
// process-wide configuration, loaded once at startup and immutable
// afterwards; there is no key rotation.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	store      tokenstore.Store
	now        func() time.Time
}

// NewCodec creates a Codec. The store receives every minted refresh token,
// keyed by the subject email.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration, store tokenstore.Store) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		store:      store,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock, for tests exercising expiry.
func (c *Codec) SetNowFunc(now func() time.Time) {
	c.now = now
}

// RefreshTTL reports the configured refresh-token lifetime.
func (c *Codec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

// CreateAccessToken mints a signed token carrying the subject's email, id,
// and role under the given category.
func (c *Codec) CreateAccessToken(email string, userID uuid.UUID, role string, category Category) (string, error) {
	now := c.now().UTC()
	claims := jwt.MapClaims{
		ClaimUserEmail: email,
		ClaimUserID:    userID.String(),
		ClaimRole:      role,
		ClaimCategory:  category.String(),
		"iat":          jwt.NewNumericDate(now),
		"exp":          jwt.NewNumericDate(now.Add(c.accessTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		slog.Error("Failed to sign access token", "email", email, "err", err)
		return "", err
	}
	return signed, nil
}

// CreateRefreshToken mints a signed token carrying only the subject's email
// and the category, and unconditionally records it in the store under that
// email. The overwrite is what enforces "one live refresh token per user".
func (c *Codec) CreateRefreshToken(ctx context.Context, email string, category Category) (string, error) {
	now := c.now().UTC()
	claims := jwt.MapClaims{
		ClaimUserEmail: email,
		ClaimCategory:  category.String(),
		"iat":          jwt.NewNumericDate(now),
		"exp":          jwt.NewNumericDate(now.Add(c.refreshTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		slog.Error("Failed to sign refresh token", "email", email, "err", err)
		return "", err
	}
	if err := c.store.Put(ctx, email, signed, c.refreshTTL); err != nil {
		return "", err
	}
	return signed, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrSignatureInvalid
	}
	return c.secret, nil
}

// decode verifies the signature and returns the claims. Expired tokens still
// have their claims returned, with errors.Is(err, jwt.ErrTokenExpired) true;
// any other failure means the token is malformed or forged.
func (c *Codec) decode(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, c.keyFunc)
	return claims, err
}

// IsExpired reports whether the token is past its expiry. Expiry is a
// boolean fact here, not an error; only a token that fails signature
// verification or parsing produces an error.
func (c *Codec) IsExpired(tokenStr string) (bool, error) {
	_, err := c.decode(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return true, nil
		}
		return false, ErrTokenMalformed{Err: err}
	}
	return false, nil
}

// UserEmail extracts the subject email claim after verifying the signature.
func (c *Codec) UserEmail(tokenStr string) (string, error) {
	claims, err := c.claims(tokenStr)
	if err != nil {
		return "", err
	}
	email, _ := claims[ClaimUserEmail].(string)
	return email, nil
}

// Category extracts the category claim after verifying the signature.
func (c *Codec) Category(tokenStr string) (Category, error) {
	claims, err := c.claims(tokenStr)
	if err != nil {
		return "", err
	}
	category, _ := claims[ClaimCategory].(string)
	return Category(category), nil
}

// UserID extracts the subject id claim. Absent on refresh tokens.
func (c *Codec) UserID(tokenStr string) (uuid.UUID, error) {
	claims, err := c.claims(tokenStr)
	if err != nil {
		return uuid.Nil, err
	}
	raw, _ := claims[ClaimUserID].(string)
	return uuid.Parse(raw)
}

// Role extracts the role claim. Absent on refresh tokens.
func (c *Codec) Role(tokenStr string) (string, error) {
	claims, err := c.claims(tokenStr)
	if err != nil {
		return "", err
	}
	role, _ := claims[ClaimRole].(string)
	return role, nil
}

func (c *Codec) claims(tokenStr string) (jwt.MapClaims, error) {
	claims, err := c.decode(tokenStr)
	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenMalformed{Err: err}
	}
	return claims, nil
}
