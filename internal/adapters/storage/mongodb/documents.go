package mongodb

import (
	"time"

	"pet-diary/internal/domain/diary"
	"pet-diary/internal/domain/pets"
	"pet-diary/internal/domain/users"
)

// Documentos tal como se guardan. _id es el UUID string que asigna el service.

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Bio          string    `bson:"bio"`
	FullName     string    `bson:"full_name,omitempty"`
	PhoneNumber  string    `bson:"phone_number,omitempty"`
	AvatarURL    string    `bson:"avatar_url,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	MemberSince  time.Time `bson:"member_since"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func fromUser(u users.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Bio:          u.Bio,
		FullName:     u.FullName,
		PhoneNumber:  u.PhoneNumber,
		AvatarURL:    u.AvatarURL,
		CreatedAt:    u.CreatedAt,
		MemberSince:  u.MemberSince,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) toUser() users.User {
	memberSince := d.MemberSince
	if memberSince.IsZero() {
		memberSince = d.CreatedAt
	}
	return users.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Bio:          d.Bio,
		FullName:     d.FullName,
		PhoneNumber:  d.PhoneNumber,
		AvatarURL:    d.AvatarURL,
		CreatedAt:    d.CreatedAt,
		MemberSince:  memberSince,
		UpdatedAt:    d.UpdatedAt,
	}
}

type reminderDoc struct {
	Text string `bson:"text"`
	Done bool   `bson:"done"`
}

type petDoc struct {
	ID        string        `bson:"_id"`
	OwnerID   string        `bson:"owner_id"`
	Name      string        `bson:"name"`
	PetType   string        `bson:"pet_type"`
	Age       int           `bson:"age"`
	Weight    *float64      `bson:"weight"`
	Breed     string        `bson:"breed"`
	Tags      []string      `bson:"tags"`
	PhotoURL  string        `bson:"photo_url,omitempty"`
	Reminders []reminderDoc `bson:"reminders,omitempty"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

func fromPet(p pets.Pet) petDoc {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return petDoc{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		PetType:   string(p.Type),
		Age:       p.Age,
		Weight:    p.Weight,
		Breed:     p.Breed,
		Tags:      tags,
		PhotoURL:  p.PhotoURL,
		Reminders: fromReminders(p.Reminders),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d petDoc) toPet() pets.Pet {
	rs := make([]pets.Reminder, 0, len(d.Reminders))
	for _, r := range d.Reminders {
		rs = append(rs, pets.Reminder{Text: r.Text, Done: r.Done})
	}
	return pets.Pet{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Type:      pets.PetType(d.PetType),
		Age:       d.Age,
		Weight:    d.Weight,
		Breed:     d.Breed,
		Tags:      d.Tags,
		PhotoURL:  d.PhotoURL,
		Reminders: rs,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromReminders(in []pets.Reminder) []reminderDoc {
	if len(in) == 0 {
		return nil
	}
	out := make([]reminderDoc, 0, len(in))
	for _, r := range in {
		out = append(out, reminderDoc{Text: r.Text, Done: r.Done})
	}
	return out
}

type postDoc struct {
	ID          string    `bson:"_id"`
	PetID       string    `bson:"pet_id"`
	OwnerID     string    `bson:"owner_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	PhotoURL    *string   `bson:"photo_url"`
	CreatedAt   time.Time `bson:"created_at"`
	IsPublic    bool      `bson:"is_public"`
}

func fromPost(p diary.Post) postDoc {
	d := postDoc{
		ID:          p.ID,
		PetID:       p.PetID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		IsPublic:    p.IsPublic,
	}
	if p.PhotoURL != "" {
		u := p.PhotoURL
		d.PhotoURL = &u
	}
	return d
}

func (d postDoc) toPost() diary.Post {
	p := diary.Post{
		ID:          d.ID,
		PetID:       d.PetID,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		IsPublic:    d.IsPublic,
	}
	if d.PhotoURL != nil {
		p.PhotoURL = *d.PhotoURL
	}
	return p
}
