package memory

import (
	"context"
	"time"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) ports.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}

	now := time.Now().UTC()
	user.ID = newID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = *user
	return nil
}

func (r *userRepository) SetRefreshToken(_ context.Context, id string, digest string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil
	}
	u.RefreshToken = digest
	u.UpdatedAt = time.Now().UTC()
	r.store.users[id] = u
	return nil
}

// DeleteUser removes a user; books keep their dangling owner reference.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}
