package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pet-diary/internal/domain/users"
	"pet-diary/internal/ports/storage"
)

// userRepo emula el índice único de users.email con byEmail.
type userRepo struct {
	mu      sync.RWMutex
	byID    map[string]users.User
	byEmail map[string]string
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID:    make(map[string]users.User),
		byEmail: make(map[string]string),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return storage.ErrDuplicateKey
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return users.User{}, storage.ErrNotFound
	}
	return r.byID[id], nil
}

// GetByUsername no es único: si hay varios, devuelve el más antiguo.
func (r *userRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		found users.User
		has   bool
	)
	for _, u := range r.byID {
		if u.Username != username {
			continue
		}
		if !has || u.CreatedAt.Before(found.CreatedAt) {
			found = u
			has = true
		}
	}
	if !has {
		return users.User{}, storage.ErrNotFound
	}
	return found, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id string, patch users.ProfilePatch, updatedAt time.Time) (users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, storage.ErrNotFound
	}
	patch.Apply(&u)
	u.UpdatedAt = updatedAt
	r.byID[id] = u
	return u, nil
}
