package pets

import (
	"strings"
	"time"
)

// PetType define los tipos soportados.
// @Enum dog, cat, hamster, rabbit, bird
type PetType string

const (
	PetTypeDog     PetType = "dog"
	PetTypeCat     PetType = "cat"
	PetTypeHamster PetType = "hamster"
	PetTypeRabbit  PetType = "rabbit"
	PetTypeBird    PetType = "bird"
)

// PetTypes en el orden en que se muestran.
var PetTypes = []PetType{PetTypeDog, PetTypeCat, PetTypeHamster, PetTypeRabbit, PetTypeBird}

func (t PetType) Valid() bool {
	for _, v := range PetTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ParsePetType normaliza (trim + lower) y valida contra PetTypes.
func ParsePetType(s string) (PetType, error) {
	t := PetType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

type Reminder struct {
	Text string
	Done bool
}

// Pet pertenece a un único owner (OwnerID referencia a users._id).
type Pet struct {
	ID      string
	OwnerID string

	Name   string
	Type   PetType
	Age    int
	Weight *float64 // kg, opcional
	Breed  string
	Tags   []string

	PhotoURL string

	// Vacío = usar DefaultReminders(Type).
	Reminders []Reminder

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch para updates parciales: nil = no tocar.
type Patch struct {
	Name      *string
	Type      *PetType
	Age       *int
	Weight    *float64
	Breed     *string
	Tags      *[]string
	PhotoURL  *string
	Reminders *[]Reminder
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Age == nil && p.Weight == nil &&
		p.Breed == nil && p.Tags == nil && p.PhotoURL == nil && p.Reminders == nil
}

// Apply copia los campos presentes sobre pet (adapters sin $set parcial).
func (p Patch) Apply(pet *Pet) {
	if p.Name != nil {
		pet.Name = *p.Name
	}
	if p.Type != nil {
		pet.Type = *p.Type
	}
	if p.Age != nil {
		pet.Age = *p.Age
	}
	if p.Weight != nil {
		w := *p.Weight
		pet.Weight = &w
	}
	if p.Breed != nil {
		pet.Breed = *p.Breed
	}
	if p.Tags != nil {
		pet.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.PhotoURL != nil {
		pet.PhotoURL = *p.PhotoURL
	}
	if p.Reminders != nil {
		pet.Reminders = append([]Reminder(nil), (*p.Reminders)...)
	}
}
