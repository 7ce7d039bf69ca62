package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-diary/internal/domain/diary"

	"github.com/jmoiron/sqlx"
)

const postColumns = `id, pet_id, owner_id, title, description, photo_url, created_at, is_public`

type postRow struct {
	ID          string         `db:"id"`
	PetID       string         `db:"pet_id"`
	OwnerID     string         `db:"owner_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	PhotoURL    sql.NullString `db:"photo_url"`
	CreatedAt   time.Time      `db:"created_at"`
	IsPublic    bool           `db:"is_public"`
}

func (r postRow) toPost() diary.Post {
	return diary.Post{
		ID:          r.ID,
		PetID:       r.PetID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		PhotoURL:    r.PhotoURL.String,
		CreatedAt:   r.CreatedAt.UTC(),
		IsPublic:    r.IsPublic,
	}
}

type DiaryRepo struct {
	db *sqlx.DB
}

func NewDiaryRepo(db *sqlx.DB) *DiaryRepo {
	return &DiaryRepo{db: db}
}

func (r *DiaryRepo) Create(ctx context.Context, p diary.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO diary_posts (`+postColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		p.ID,
		p.PetID,
		p.OwnerID,
		p.Title,
		p.Description,
		sql.NullString{String: p.PhotoURL, Valid: p.PhotoURL != ""},
		p.CreatedAt,
		p.IsPublic,
	)
	return mapErr("insert diary post", err)
}

func (r *DiaryRepo) GetByID(ctx context.Context, id string) (diary.Post, error) {
	var row postRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+postColumns+` FROM diary_posts WHERE id = $1`, id); err != nil {
		return diary.Post{}, mapErr("get diary post", err)
	}
	return row.toPost(), nil
}

func (r *DiaryRepo) ListForPet(ctx context.Context, petID, ownerID string, limit int) ([]diary.Post, error) {
	var rows []postRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+postColumns+`
		FROM diary_posts
		WHERE pet_id = $1 AND owner_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, petID, ownerID, limit)
	if err != nil {
		return nil, mapErr("list diary posts", err)
	}

	out := make([]diary.Post, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toPost())
	}
	return out, nil
}

func (r *DiaryRepo) DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM diary_posts WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, mapErr("delete diary post", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *DiaryRepo) DeleteForPet(ctx context.Context, petID, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM diary_posts WHERE pet_id = $1 AND owner_id = $2`, petID, ownerID)
	if err != nil {
		return 0, mapErr("delete diary posts for pet", err)
	}
	return res.RowsAffected()
}
