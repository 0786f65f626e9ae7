package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemRepository is a mutex-guarded map implementation of Repository, used
// in tests and local development.
type InMemRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewInMemRepository creates an empty in-memory repository.
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		users: make(map[uuid.UUID]User),
	}
}

func (r *InMemRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound{Email: email}
}

func (r *InMemRepository) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound{Email: id.String()}
	}
	return u, nil
}

func (r *InMemRepository) Create(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return User{}, ErrEmailAlreadyExists{Email: u.Email}
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *InMemRepository) Update(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return User{}, ErrUserNotFound{Email: u.Email}
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *InMemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}
