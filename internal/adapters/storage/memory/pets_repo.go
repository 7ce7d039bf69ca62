package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-diary/internal/domain/pets"
	"pet-diary/internal/ports/storage"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return storage.ErrDuplicateKey
	}
	r.byID[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) GetForOwner(ctx context.Context, id, ownerID string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok || p.OwnerID != ownerID {
		return pets.Pet{}, storage.ErrNotFound
	}
	return clonePet(p), nil
}

// ListByOwner: created_at asc, igual que los otros backends.
func (r *petRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, clonePet(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *petRepo) UpdateForOwner(ctx context.Context, id, ownerID string, patch pets.Patch, updatedAt time.Time) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok || p.OwnerID != ownerID {
		return pets.Pet{}, storage.ErrNotFound
	}

	patch.Apply(&p)
	p.UpdatedAt = updatedAt
	r.byID[id] = p
	return clonePet(p), nil
}

func (r *petRepo) DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok || p.OwnerID != ownerID {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

// clonePet copia slices/punteros para que el caller no mute el estado interno.
func clonePet(p pets.Pet) pets.Pet {
	if p.Weight != nil {
		w := *p.Weight
		p.Weight = &w
	}
	p.Tags = append([]string(nil), p.Tags...)
	p.Reminders = append([]pets.Reminder(nil), p.Reminders...)
	return p
}
