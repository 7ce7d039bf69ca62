package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-diary/internal/domain/diary"
	"pet-diary/internal/ports/storage"
)

type diaryRepo struct {
	mu   sync.RWMutex
	byID map[string]diary.Post
}

func NewDiaryRepo() diary.Repository {
	return &diaryRepo{
		byID: make(map[string]diary.Post),
	}
}

func (r *diaryRepo) Create(ctx context.Context, p diary.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("post id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return storage.ErrDuplicateKey
	}
	r.byID[p.ID] = p
	return nil
}

func (r *diaryRepo) GetByID(ctx context.Context, id string) (diary.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return diary.Post{}, storage.ErrNotFound
	}
	return p, nil
}

func (r *diaryRepo) ListForPet(ctx context.Context, petID, ownerID string, limit int) ([]diary.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]diary.Post, 0)
	for _, p := range r.byID {
		if p.PetID == petID && p.OwnerID == ownerID {
			out = append(out, p)
		}
	}

	// created_at desc; empate por id para que el orden sea estable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *diaryRepo) DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok || p.OwnerID != ownerID {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *diaryRepo) DeleteForPet(ctx context.Context, petID, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, p := range r.byID {
		if p.PetID == petID && p.OwnerID == ownerID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}
