package pets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-diary/internal/domain/validation"
	"pet-diary/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = validation.ErrInvalidInput
	ErrNotFound     = storage.ErrNotFound

	// ErrInvalidType: pet_type fuera de PetTypes. errors.Is(err, ErrInvalidInput) también es true.
	ErrInvalidType = validation.Invalid("pet_type", "must be one of dog, cat, hamster, rabbit, bird")
)

type Service struct {
	repo   Repository
	owners OwnerDirectory
	posts  PostCleaner
	now    func() time.Time
}

func NewService(repo Repository, owners OwnerDirectory) *Service {
	return &Service{
		repo:   repo,
		owners: owners,
		now:    time.Now,
	}
}

// SetPostCleaner engancha el borrado en cascada del diario.
func (s *Service) SetPostCleaner(c PostCleaner) {
	s.posts = c
}

type CreateInput struct {
	Name     string
	Type     string
	Age      int
	Weight   *float64
	Breed    string
	Tags     []string
	PhotoURL string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Pet{}, validation.Invalid("owner_id", "is required")
	}

	petType, err := ParsePetType(in.Type)
	if err != nil {
		return Pet{}, err
	}
	if err := validation.First(
		validation.Required("name", in.Name),
		checkAge(in.Age),
		checkWeight(in.Weight),
	); err != nil {
		return Pet{}, err
	}

	if err := s.requireOwner(ctx, ownerID); err != nil {
		return Pet{}, err
	}

	now := s.now().UTC()
	p := Pet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		Type:      petType,
		Age:       in.Age,
		Weight:    in.Weight,
		Breed:     strings.TrimSpace(in.Breed),
		Tags:      cleanTags(in.Tags),
		PhotoURL:  strings.TrimSpace(in.PhotoURL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetForOwner(ctx context.Context, petID, ownerID string) (Pet, error) {
	petID, ownerID = strings.TrimSpace(petID), strings.TrimSpace(ownerID)
	if petID == "" || ownerID == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetForOwner(ctx, petID, ownerID)
}

// ListByOwner no garantiza orden.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return []Pet{}, nil
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

type UpdateInput struct {
	Name     *string
	Type     *string
	Age      *int
	Weight   *float64
	Breed    *string
	Tags     *[]string
	PhotoURL *string
}

// Update aplica el patch solo si (petID, ownerID) matchea; si no, ErrNotFound
// y la mascota no se toca.
func (s *Service) Update(ctx context.Context, petID, ownerID string, in UpdateInput) (Pet, error) {
	petID, ownerID = strings.TrimSpace(petID), strings.TrimSpace(ownerID)
	if petID == "" || ownerID == "" {
		return Pet{}, ErrNotFound
	}

	var patch Patch
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if err := validation.Required("name", v); err != nil {
			return Pet{}, err
		}
		patch.Name = &v
	}
	if in.Type != nil {
		t, err := ParsePetType(*in.Type)
		if err != nil {
			return Pet{}, err
		}
		patch.Type = &t
	}
	if in.Age != nil {
		if err := checkAge(*in.Age); err != nil {
			return Pet{}, err
		}
		patch.Age = in.Age
	}
	if in.Weight != nil {
		if err := checkWeight(in.Weight); err != nil {
			return Pet{}, err
		}
		patch.Weight = in.Weight
	}
	if in.Breed != nil {
		v := strings.TrimSpace(*in.Breed)
		patch.Breed = &v
	}
	if in.Tags != nil {
		v := cleanTags(*in.Tags)
		patch.Tags = &v
	}
	if in.PhotoURL != nil {
		v := strings.TrimSpace(*in.PhotoURL)
		patch.PhotoURL = &v
	}

	if patch.IsEmpty() {
		return s.repo.GetForOwner(ctx, petID, ownerID)
	}
	return s.repo.UpdateForOwner(ctx, petID, ownerID, patch, s.now().UTC())
}

// Delete es idempotente. Si efectivamente borró, borra también su diario.
func (s *Service) Delete(ctx context.Context, petID, ownerID string) error {
	petID, ownerID = strings.TrimSpace(petID), strings.TrimSpace(ownerID)
	if petID == "" || ownerID == "" {
		return nil
	}

	deleted, err := s.repo.DeleteForOwner(ctx, petID, ownerID)
	if err != nil {
		return err
	}
	if deleted && s.posts != nil {
		if err := s.posts.DeleteForPet(ctx, petID, ownerID); err != nil {
			return fmt.Errorf("delete diary posts: %w", err)
		}
	}
	return nil
}

// Reminders devuelve los guardados o, si no hay, los default del tipo.
func (s *Service) Reminders(ctx context.Context, petID, ownerID string) ([]Reminder, error) {
	p, err := s.GetForOwner(ctx, petID, ownerID)
	if err != nil {
		return nil, err
	}
	if len(p.Reminders) > 0 {
		return p.Reminders, nil
	}
	return DefaultReminders(p.Type), nil
}

func (s *Service) SetReminders(ctx context.Context, petID, ownerID string, in []Reminder) (Pet, error) {
	petID, ownerID = strings.TrimSpace(petID), strings.TrimSpace(ownerID)
	if petID == "" || ownerID == "" {
		return Pet{}, ErrNotFound
	}

	out := make([]Reminder, 0, len(in))
	for _, r := range in {
		txt := strings.TrimSpace(r.Text)
		if txt == "" {
			continue
		}
		out = append(out, Reminder{Text: txt, Done: r.Done})
	}

	return s.repo.UpdateForOwner(ctx, petID, ownerID, Patch{Reminders: &out}, s.now().UTC())
}

func (s *Service) requireOwner(ctx context.Context, ownerID string) error {
	if s.owners == nil {
		return nil
	}
	ok, err := s.owners.Exists(ctx, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("owner %s: %w", ownerID, ErrNotFound)
	}
	return nil
}

func checkAge(age int) error {
	if age < 0 {
		return validation.Invalid("age", "must be zero or positive")
	}
	return nil
}

func checkWeight(w *float64) error {
	if w != nil && *w < 0 {
		return validation.Invalid("weight", "must be zero or positive")
	}
	return nil
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
