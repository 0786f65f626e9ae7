package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service owns identity-record reads and writes. The auth packages reach
// user storage only through this service, never through a repository
// directly.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SignupParams carries the fields accepted on registration.
type SignupParams struct {
	Email    string
	Password string
	Role     Role
	Name     string
	Alias    string
	Phone    string
}

// UpdateParams carries the fields a user may change after registration.
// Empty fields are left untouched.
type UpdateParams struct {
	Password string
	Name     string
	Alias    string
	Phone    string
}

// HashPassword hashes the plain-text password using bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPasswordHash compares the plain-text password with the stored hash.
func CheckPasswordHash(password, hashedPassword string) (bool, error) {
	if password == "" || hashedPassword == "" {
		return false, fmt.Errorf("password and hashed password cannot be empty")
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByEmail returns the identity record for the email, including the
// credential hash. Callers attaching the record to a request context must
// strip it first via WithoutCredentials.
func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// GetByID returns the identity record for the id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// Signup registers a new identity record with a hashed credential.
func (s *Service) Signup(ctx context.Context, params SignupParams) (User, error) {
	hashed, err := HashPassword(params.Password)
	if err != nil {
		return User{}, err
	}
	role := params.Role
	if role == "" {
		role = RoleUser
	}
	u, err := s.repo.Create(ctx, User{
		Email:    params.Email,
		Password: hashed,
		Role:     role,
		Name:     params.Name,
		Alias:    params.Alias,
		Phone:    params.Phone,
	})
	if err != nil {
		slog.Error("Failed to create user", "email", params.Email, "err", err)
		return User{}, err
	}
	return u, nil
}

// Update applies the non-empty fields of params to the record for email.
func (s *Service) Update(ctx context.Context, email string, params UpdateParams) (User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if params.Password != "" {
		hashed, err := HashPassword(params.Password)
		if err != nil {
			return User{}, err
		}
		u.Password = hashed
	}
	if params.Name != "" {
		u.Name = params.Name
	}
	if params.Alias != "" {
		u.Alias = params.Alias
	}
	if params.Phone != "" {
		u.Phone = params.Phone
	}
	return s.repo.Update(ctx, u)
}

// UpdateFromProvider merges a third-party login into the existing record:
// name and credential come from the provider payload, the rest is kept.
func (s *Service) UpdateFromProvider(ctx context.Context, email, name, credential string) (User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	hashed, err := HashPassword(credential)
	if err != nil {
		return User{}, err
	}
	u.Name = name
	u.Password = hashed
	return s.repo.Update(ctx, u)
}

// Delete removes the identity record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
