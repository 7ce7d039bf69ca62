package users

import "time"

// User es una cuenta registrada. Email es único (índice en la base) y se
// guarda en minúsculas.
type User struct {
	ID       string
	Username string
	Email    string

	// Hash opaco (bcrypt). Nunca sale por la API.
	PasswordHash string

	Bio         string
	FullName    string
	PhoneNumber string
	AvatarURL   string

	CreatedAt   time.Time
	MemberSince time.Time
	UpdatedAt   time.Time
}

// ProfilePatch: nil = no tocar.
type ProfilePatch struct {
	Username    *string
	Bio         *string
	FullName    *string
	PhoneNumber *string
	AvatarURL   *string
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Username == nil && p.Bio == nil && p.FullName == nil &&
		p.PhoneNumber == nil && p.AvatarURL == nil
}

// Apply copia los campos presentes sobre u. La usan los adapters que no
// pueden hacer $set parcial (memory).
func (p ProfilePatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
}
