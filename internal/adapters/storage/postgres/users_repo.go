package postgres

import (
	"context"
	"strings"
	"time"

	"pet-diary/internal/domain/users"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, email, password_hash, bio, full_name, phone_number, avatar_url, created_at, member_since, updated_at`

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Bio          string    `db:"bio"`
	FullName     string    `db:"full_name"`
	PhoneNumber  string    `db:"phone_number"`
	AvatarURL    string    `db:"avatar_url"`
	CreatedAt    time.Time `db:"created_at"`
	MemberSince  time.Time `db:"member_since"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toUser() users.User {
	return users.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Bio:          r.Bio,
		FullName:     r.FullName,
		PhoneNumber:  r.PhoneNumber,
		AvatarURL:    r.AvatarURL,
		CreatedAt:    r.CreatedAt.UTC(),
		MemberSince:  r.MemberSince.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type UsersRepo struct {
	db *sqlx.DB
}

func NewUsersRepo(db *sqlx.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Bio,
		u.FullName,
		u.PhoneNumber,
		u.AvatarURL,
		u.CreatedAt,
		u.MemberSince,
		u.UpdatedAt,
	)
	return mapErr("insert user", err)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByUsername: username no es único, gana el más antiguo.
func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 ORDER BY created_at ASC LIMIT 1`, username)
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id string, patch users.ProfilePatch, updatedAt time.Time) (users.User, error) {
	set := newSetClause(id)
	if patch.Username != nil {
		set.add("username", *patch.Username)
	}
	if patch.Bio != nil {
		set.add("bio", *patch.Bio)
	}
	if patch.FullName != nil {
		set.add("full_name", *patch.FullName)
	}
	if patch.PhoneNumber != nil {
		set.add("phone_number", *patch.PhoneNumber)
	}
	if patch.AvatarURL != nil {
		set.add("avatar_url", *patch.AvatarURL)
	}
	set.add("updated_at", updatedAt)

	q := `UPDATE users SET ` + strings.Join(set.cols, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	return r.getOne(ctx, q, set.args...)
}

func (r *UsersRepo) getOne(ctx context.Context, q string, args ...any) (users.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		return users.User{}, mapErr("get user", err)
	}
	return row.toUser(), nil
}
