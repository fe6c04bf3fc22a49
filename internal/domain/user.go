package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account plus the profile fields the app edits. Email is unique;
// the password hash never leaves the server.
// Body metrics are kept as entered (strings), same as the onboarding form.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"nome" json:"nome"`
	Surname      string             `bson:"sobrenome,omitempty" json:"sobrenome,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	BirthDate    string             `bson:"dataNascimento,omitempty" json:"dataNascimento,omitempty"`
	Sex          string             `bson:"sexo,omitempty" json:"sexo,omitempty"`
	Weight       string             `bson:"peso,omitempty" json:"peso,omitempty"`
	Height       string             `bson:"altura,omitempty" json:"altura,omitempty"`
	Age          string             `bson:"idade,omitempty" json:"idade,omitempty"`
	AvatarKey    string             `bson:"avatarKey,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileUpdate carries a partial profile edit. Nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string `json:"nome"`
	Surname   *string `json:"sobrenome"`
	BirthDate *string `json:"dataNascimento"`
	Sex       *string `json:"sexo"`
	Weight    *string `json:"peso"`
	Height    *string `json:"altura"`
	Age       *string `json:"idade"`
}

// IsEmpty reports whether the update would change nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Surname == nil && u.BirthDate == nil && u.Sex == nil &&
		u.Weight == nil && u.Height == nil && u.Age == nil
}
