package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-diary/internal/domain/pets"

	"github.com/jmoiron/sqlx"
)

const petColumns = `id, owner_id, name, pet_type, age, weight, breed, tags, photo_url, reminders, created_at, updated_at`

type reminderJSON struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type petRow struct {
	ID        string                     `db:"id"`
	OwnerID   string                     `db:"owner_id"`
	Name      string                     `db:"name"`
	PetType   string                     `db:"pet_type"`
	Age       int                        `db:"age"`
	Weight    sql.NullFloat64            `db:"weight"`
	Breed     string                     `db:"breed"`
	Tags      jsonColumn[[]string]       `db:"tags"`
	PhotoURL  string                     `db:"photo_url"`
	Reminders jsonColumn[[]reminderJSON] `db:"reminders"`
	CreatedAt time.Time                  `db:"created_at"`
	UpdatedAt time.Time                  `db:"updated_at"`
}

func (r petRow) toPet() pets.Pet {
	p := pets.Pet{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Name:      r.Name,
		Type:      pets.PetType(r.PetType),
		Age:       r.Age,
		Breed:     r.Breed,
		Tags:      r.Tags.V,
		PhotoURL:  r.PhotoURL,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.Weight.Valid {
		w := r.Weight.Float64
		p.Weight = &w
	}
	for _, rm := range r.Reminders.V {
		p.Reminders = append(p.Reminders, pets.Reminder{Text: rm.Text, Done: rm.Done})
	}
	return p
}

func tagsColumn(tags []string) jsonColumn[[]string] {
	if tags == nil {
		tags = []string{}
	}
	return jsonColumn[[]string]{V: tags}
}

func remindersColumn(in []pets.Reminder) jsonColumn[[]reminderJSON] {
	out := make([]reminderJSON, 0, len(in))
	for _, r := range in {
		out = append(out, reminderJSON{Text: r.Text, Done: r.Done})
	}
	return jsonColumn[[]reminderJSON]{V: out}
}

func nullWeight(w *float64) sql.NullFloat64 {
	if w == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *w, Valid: true}
}

type PetsRepo struct {
	db *sqlx.DB
}

func NewPetsRepo(db *sqlx.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		string(p.Type),
		p.Age,
		nullWeight(p.Weight),
		p.Breed,
		tagsColumn(p.Tags),
		p.PhotoURL,
		remindersColumn(p.Reminders),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr("insert pet", err)
}

func (r *PetsRepo) GetForOwner(ctx context.Context, id, ownerID string) (pets.Pet, error) {
	var row petRow
	err := r.db.GetContext(ctx, &row, `SELECT `+petColumns+` FROM pets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return pets.Pet{}, mapErr("get pet", err)
	}
	return row.toPet(), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	var rows []petRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, mapErr("list pets", err)
	}

	out := make([]pets.Pet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toPet())
	}
	return out, nil
}

func (r *PetsRepo) UpdateForOwner(ctx context.Context, id, ownerID string, patch pets.Patch, updatedAt time.Time) (pets.Pet, error) {
	set := newSetClause(id, ownerID)
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Type != nil {
		set.add("pet_type", string(*patch.Type))
	}
	if patch.Age != nil {
		set.add("age", *patch.Age)
	}
	if patch.Weight != nil {
		set.add("weight", nullWeight(patch.Weight))
	}
	if patch.Breed != nil {
		set.add("breed", *patch.Breed)
	}
	if patch.Tags != nil {
		set.add("tags", tagsColumn(*patch.Tags))
	}
	if patch.PhotoURL != nil {
		set.add("photo_url", *patch.PhotoURL)
	}
	if patch.Reminders != nil {
		set.add("reminders", remindersColumn(*patch.Reminders))
	}
	set.add("updated_at", updatedAt)

	q := `UPDATE pets SET ` + strings.Join(set.cols, ", ") +
		` WHERE id = $1 AND owner_id = $2 RETURNING ` + petColumns

	var row petRow
	if err := r.db.GetContext(ctx, &row, q, set.args...); err != nil {
		return pets.Pet{}, mapErr("update pet", err)
	}
	return row.toPet(), nil
}

func (r *PetsRepo) DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, mapErr("delete pet", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
