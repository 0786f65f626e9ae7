package token

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cinecore/cine-auth/pkg/tokenstore"
	"github.com/cinecore/cine-auth/pkg/user"
)

// Cookie and header names used to carry tokens. Local signin returns the
// access token in a response header; the OAuth flow stores it in a cookie.
const (
	AccessTokenName  = "accessToken"
	RefreshTokenName = "refreshToken"
)

// Service runs the token lifecycle: validation, reissue, and revocation.
// Validity is evaluated fresh on every call; nothing is cached between
// requests.
type Service struct {
	codec *Codec
	store tokenstore.Store
	users *user.Service
}

func NewService(codec *Codec, store tokenstore.Store, users *user.Service) *Service {
	return &Service{
		codec: codec,
		store: store,
		users: users,
	}
}

// Codec exposes the underlying codec for callers that mint tokens directly.
func (s *Service) Codec() *Codec {
	return s.codec
}

// RefreshTokenFromRequest reads the refresh token cookie. Returns an empty
// string when the cookie is absent.
func (s *Service) RefreshTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(RefreshTokenName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// OAuthAccessTokenFromRequest reads the access token cookie set by the OAuth
// callback. Returns an empty string when the cookie is absent.
func (s *Service) OAuthAccessTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(AccessTokenName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// AccessTokenFromRequest looks for the access token first in the request
// header, then in the cookie used by the OAuth flow.
func (s *Service) AccessTokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(AccessTokenName); token != "" {
		return token
	}
	return s.OAuthAccessTokenFromRequest(r)
}

// ValidateRefreshToken checks a refresh token end to end: presence, expiry,
// category, and store liveness. Liveness requires the stored token for the
// subject email to equal the presented one, so a signin or reissue for the
// same user invalidates every earlier refresh token immediately.
func (s *Service) ValidateRefreshToken(ctx context.Context, tokenStr string) error {
	if tokenStr == "" {
		return ErrInvalidToken{Reason: "refresh token is missing"}
	}

	expired, err := s.codec.IsExpired(tokenStr)
	if err != nil {
		return err
	}
	if expired {
		return ErrInvalidToken{Reason: "expired refresh token"}
	}

	category, err := s.codec.Category(tokenStr)
	if err != nil {
		return err
	}
	if category != CategoryRefresh {
		return ErrInvalidTokenCategory{Category: category.String()}
	}

	email, err := s.codec.UserEmail(tokenStr)
	if err != nil {
		return err
	}
	stored, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.As(err, &tokenstore.ErrValueNotFound{}) {
			return ErrInvalidToken{Reason: "invalid refresh token"}
		}
		// Store outage: surface it, do not fall back.
		return err
	}
	if stored != tokenStr {
		return ErrInvalidToken{Reason: "superseded refresh token"}
	}
	return nil
}

// ValidateAccessToken checks an access token: presence, expiry, and that the
// category is one of the authenticated-session categories. Only refresh is
// excluded from request authorization.
func (s *Service) ValidateAccessToken(tokenStr string) error {
	if tokenStr == "" {
		return ErrInvalidToken{Reason: "access token is missing"}
	}

	expired, err := s.codec.IsExpired(tokenStr)
	if err != nil {
		return err
	}
	if expired {
		return ErrInvalidToken{Reason: "expired access token"}
	}

	category, err := s.codec.Category(tokenStr)
	if err != nil {
		return err
	}
	if category != CategoryAccess && category != CategoryOAuth {
		return ErrInvalidTokenCategory{Category: category.String()}
	}
	return nil
}

// HasCategory reports whether a valid access token carries exactly the
// expected category. Used to tell a locally-issued session from an
// OAuth-issued one.
func (s *Service) HasCategory(tokenStr string, expected Category) (bool, error) {
	if err := s.ValidateAccessToken(tokenStr); err != nil {
		return false, err
	}
	category, err := s.codec.Category(tokenStr)
	if err != nil {
		return false, err
	}
	return category == expected, nil
}

// UserFromAccessToken validates the token and resolves its subject to the
// identity record, with the credential hash stripped.
func (s *Service) UserFromAccessToken(ctx context.Context, tokenStr string) (user.User, error) {
	if err := s.ValidateAccessToken(tokenStr); err != nil {
		return user.User{}, err
	}
	email, err := s.codec.UserEmail(tokenStr)
	if err != nil {
		return user.User{}, err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	return u.WithoutCredentials(), nil
}

// ReissueAccessToken validates the refresh token and mints a fresh access
// token. The subject's id and role are re-resolved from the identity record,
// never trusted from the refresh token, so a role change takes effect on the
// next reissue.
func (s *Service) ReissueAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if err := s.ValidateRefreshToken(ctx, refreshToken); err != nil {
		return "", err
	}

	email, err := s.codec.UserEmail(refreshToken)
	if err != nil {
		return "", err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		slog.Error("Failed to resolve user for reissue", "email", email, "err", err)
		return "", err
	}
	return s.codec.CreateAccessToken(u.Email, u.ID, string(u.Role), CategoryAccess)
}

// RevokeRefreshToken deletes the store entry for the access token's subject.
// Subsequent refresh attempts for that user fail until the next signin;
// already-issued access tokens keep working until their natural expiry.
func (s *Service) RevokeRefreshToken(ctx context.Context, accessToken string) error {
	if err := s.ValidateAccessToken(accessToken); err != nil {
		return err
	}
	email, err := s.codec.UserEmail(accessToken)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, email)
}
