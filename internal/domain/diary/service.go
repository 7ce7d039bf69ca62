package diary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-diary/internal/domain/pets"
	"pet-diary/internal/domain/validation"
	"pet-diary/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = validation.ErrInvalidInput
	ErrNotFound     = storage.ErrNotFound
)

// PetLookup es la parte de pets.Service que necesita el diario.
type PetLookup interface {
	GetForOwner(ctx context.Context, petID, ownerID string) (pets.Pet, error)
}

type Service struct {
	repo Repository
	pets PetLookup
	now  func() time.Time
}

func NewService(repo Repository, pets PetLookup) *Service {
	return &Service{
		repo: repo,
		pets: pets,
		now:  time.Now,
	}
}

type CreateInput struct {
	Title       string
	Description string
	PhotoURL    string

	// Zero => now.
	CreatedAt time.Time
}

// Create exige que el pet exista y sea de ownerID; si no, ErrNotFound.
func (s *Service) Create(ctx context.Context, petID, ownerID string, in CreateInput) (Post, error) {
	petID, ownerID = strings.TrimSpace(petID), strings.TrimSpace(ownerID)
	if petID == "" || ownerID == "" {
		return Post{}, ErrNotFound
	}
	if err := validation.Required("title", in.Title); err != nil {
		return Post{}, err
	}

	pet, err := s.pets.GetForOwner(ctx, petID, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Post{}, fmt.Errorf("pet %s: %w", petID, ErrNotFound)
		}
		return Post{}, err
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	p := Post{
		ID:          uuid.NewString(),
		PetID:       pet.ID,
		OwnerID:     pet.OwnerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		CreatedAt:   createdAt.UTC().Truncate(time.Millisecond), // precisión de BSON
		IsPublic:    true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// ListForPet devuelve los posts más nuevos primero. Un pet ajeno o
// inexistente da lista vacía (la query ya filtra por owner).
func (s *Service) ListForPet(ctx context.Context, petID, ownerID string, limit int) ([]Post, error) {
	petID, ownerID = strings.TrimSpace(petID), strings.TrimSpace(ownerID)
	if petID == "" || ownerID == "" {
		return []Post{}, nil
	}
	return s.repo.ListForPet(ctx, petID, ownerID, NormalizeLimit(limit))
}

// GetByID no filtra por owner: los posts son públicos.
func (s *Service) GetByID(ctx context.Context, id string) (Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Post{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Delete borra solo si el post es de ownerID. Idempotente.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	id, ownerID = strings.TrimSpace(id), strings.TrimSpace(ownerID)
	if id == "" || ownerID == "" {
		return nil
	}
	_, err := s.repo.DeleteForOwner(ctx, id, ownerID)
	return err
}

// DeleteForPet implementa pets.PostCleaner.
func (s *Service) DeleteForPet(ctx context.Context, petID, ownerID string) error {
	_, err := s.repo.DeleteForPet(ctx, petID, ownerID)
	return err
}
