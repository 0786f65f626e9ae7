package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupHashesPassword(t *testing.T) {
	svc := NewService(NewInMemRepository())

	u, err := svc.Signup(context.Background(), SignupParams{
		Email:    "test@example.com",
		Password: "pass1234!",
		Name:     "Test User",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "pass1234!", u.Password, "stored password must be hashed")
	assert.Equal(t, RoleUser, u.Role, "role should default to USER")

	valid, err := CheckPasswordHash("pass1234!", u.Password)
	assert.NoError(t, err)
	assert.True(t, valid)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupParams{Email: "test@example.com", Password: "pass1234!"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupParams{Email: "test@example.com", Password: "other5678!"})
	assert.ErrorAs(t, err, &ErrEmailAlreadyExists{})
}

func TestCheckPasswordHashEmpty(t *testing.T) {
	_, err := CheckPasswordHash("", "hash")
	assert.Error(t, err)

	_, err = CheckPasswordHash("password", "")
	assert.Error(t, err)
}

func TestUpdateAppliesOnlyNonEmptyFields(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupParams{
		Email:    "test@example.com",
		Password: "pass1234!",
		Name:     "Original",
		Alias:    "orig",
		Phone:    "010-1111-2222",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "test@example.com", UpdateParams{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "orig", updated.Alias, "alias should be untouched")
	assert.Equal(t, "010-1111-2222", updated.Phone, "phone should be untouched")
	assert.Equal(t, created.Password, updated.Password, "password should be untouched")
}

func TestUpdateFromProviderReplacesNameAndCredential(t *testing.T) {
	svc := NewService(NewInMemRepository())
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupParams{
		Email:    "oauth@example.com",
		Password: "google 1234567890",
		Name:     "Old Name",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateFromProvider(ctx, "oauth@example.com", "New Name", "google 1234567890")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, created.ID, updated.ID, "record must be updated in place")
}

func TestWithoutCredentials(t *testing.T) {
	u := User{Email: "test@example.com", Password: "hash"}
	assert.Empty(t, u.WithoutCredentials().Password)
	assert.Equal(t, "hash", u.Password, "original must be unchanged")
}
