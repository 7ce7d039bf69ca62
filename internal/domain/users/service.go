package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-diary/internal/domain/validation"
	"pet-diary/internal/platform/password"
	"pet-diary/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = validation.ErrInvalidInput
	ErrNotFound           = storage.ErrNotFound
	ErrDuplicateKey       = storage.ErrDuplicateKey
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Username     string
	Email        string
	PasswordHash string
}

// Create inserta el usuario. La unicidad del email la garantiza el índice
// único de la base: acá no se consulta antes.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	username := strings.TrimSpace(in.Username)
	email := validation.NormalizeEmail(in.Email)

	if err := validation.First(
		validation.Required("username", username),
		validation.Email("email", email),
		validation.Required("password_hash", in.PasswordHash),
	); err != nil {
		return User{}, err
	}

	now := s.now().UTC()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		MemberSince:  now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Register hashea la contraseña y delega en Create.
func (s *Service) Register(ctx context.Context, username, email, plain string) (User, error) {
	if len(plain) < password.MinLength {
		return User{}, validation.Invalid("password", "must be at least 6 characters")
	}
	if len(plain) > password.MaxBytes {
		return User{}, validation.Invalid("password", "must be at most 72 bytes")
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return User{}, err
	}
	return s.Create(ctx, CreateInput{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) FindByUsername(ctx context.Context, username string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByUsername(ctx, username)
}

// Authenticate acepta email o username: primero busca por email y si no
// aparece prueba por username.
func (s *Service) Authenticate(ctx context.Context, identifier, plain string) (User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || plain == "" {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.FindByEmail(ctx, identifier)
	if errors.Is(err, ErrNotFound) {
		u, err = s.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if !password.Matches(u.PasswordHash, plain) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrNotFound
	}

	if patch.Username != nil {
		v := strings.TrimSpace(*patch.Username)
		if err := validation.Required("username", v); err != nil {
			return User{}, err
		}
		patch.Username = &v
	}
	trim(&patch.FullName)
	trim(&patch.PhoneNumber)
	trim(&patch.AvatarURL)

	if patch.IsEmpty() {
		return s.repo.GetByID(ctx, id)
	}
	return s.repo.UpdateProfile(ctx, id, patch, s.now().UTC())
}

func trim(p **string) {
	if *p == nil {
		return
	}
	v := strings.TrimSpace(**p)
	*p = &v
}

// Exists implementa pets.OwnerDirectory.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
