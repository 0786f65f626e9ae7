package oauth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jinzhu/copier"

	"github.com/cinecore/cine-auth/pkg/token"
	"github.com/cinecore/cine-auth/pkg/user"
)

// TokenPair is the access/refresh pair minted for a provider login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service merges third-party-authenticated identities into local records and
// issues tokens for them through the same codec as local signin, under the
// OAuth category.
type Service struct {
	users  *user.Service
	tokens *token.Service
}

func NewService(users *user.Service, tokens *token.Service) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

// SignIn reconciles the provider payload with the local identity records:
// an unknown email is registered as a new USER, a known one has its name and
// credential refreshed in place. Either way the resulting identity gets a
// token pair under category OAuth.
func (s *Service) SignIn(ctx context.Context, pu ProviderUser) (user.User, TokenPair, error) {
	u, err := s.reconcile(ctx, pu)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}

	accessToken, err := s.tokens.Codec().CreateAccessToken(u.Email, u.ID, string(u.Role), token.CategoryOAuth)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	refreshToken, err := s.tokens.Codec().CreateRefreshToken(ctx, u.Email, token.CategoryOAuth)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}

	return u.WithoutCredentials(), TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) reconcile(ctx context.Context, pu ProviderUser) (user.User, error) {
	existing, err := s.users.GetByEmail(ctx, pu.Email)
	if err != nil {
		if !errors.As(err, &user.ErrUserNotFound{}) {
			return user.User{}, err
		}

		params := user.SignupParams{
			Password: pu.Credential(),
			Role:     user.RoleUser,
		}
		if err := copier.Copy(&params, pu); err != nil {
			return user.User{}, err
		}

		created, err := s.users.Signup(ctx, params)
		if err != nil {
			return user.User{}, err
		}
		slog.Info("Registered user from provider login", "provider", pu.Provider, "email", pu.Email)
		return created, nil
	}

	// A provider login is an implicit profile refresh for the existing record.
	updated, err := s.users.UpdateFromProvider(ctx, existing.Email, pu.Name, pu.Credential())
	if err != nil {
		return user.User{}, err
	}
	return updated, nil
}
