package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DefaultPhotoURL is used when a user signs up without a profile photo.
const DefaultPhotoURL = "https://www.gravatar.com/avatar/?d=mp&s=256"

// Profile limits shared by signup and profile edit.
const (
	MinAge         = 18
	MaxAge         = 60
	MaxBioLength   = 500
	MaxSkills      = 10
	MaxSkillLength = 30
)

// Accepted gender values, stored lowercase.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOthers = "others"
)

// Genders lists every accepted gender value.
var Genders = []string{GenderMale, GenderFemale, GenderOthers}

// User represents a registered member.
type User struct {
	ID        string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FirstName string                      `json:"firstName" gorm:"type:varchar(50);not null"`
	LastName  string                      `json:"lastName" gorm:"type:varchar(50);not null"`
	EmailID   string                      `json:"emailId" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string                      `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Age       int                         `json:"age" gorm:"index"`
	Gender    string                      `json:"gender" gorm:"type:varchar(10);index"`
	PhotoURL  string                      `json:"photo" gorm:"type:varchar(512)"`
	Bio       string                      `json:"bio" gorm:"type:varchar(500)"`
	Skills    datatypes.JSONSlice[string] `json:"skills"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

// UserSkill indexes a user's skills (lowercased) so the feed can filter them in SQL.
type UserSkill struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"type:varchar(36);index;not null"`
	Name   string `gorm:"type:varchar(30);index;not null"`
}

// PublicUser is the shape of a user shown to other members and to the owner.
type PublicUser struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	EmailID   string    `json:"emailId,omitempty"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	PhotoURL  string    `json:"photo"`
	Bio       string    `json:"bio"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the user without the credential and with the display form of gender.
// The email is only included for the owner view.
func (u *User) Public(includeEmail bool) PublicUser {
	skills := []string(u.Skills)
	if skills == nil {
		skills = []string{}
	}
	p := PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Gender:    DisplayGender(u.Gender),
		PhotoURL:  u.PhotoURL,
		Bio:       u.Bio,
		Skills:    skills,
		CreatedAt: u.CreatedAt,
	}
	if includeEmail {
		p.EmailID = u.EmailID
	}
	return p
}

// PublicUsers maps a slice of users to their public form.
func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public(false))
	}
	return out
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeGender returns the stored (lowercase) form of a gender value.
func NormalizeGender(gender string) string {
	return strings.ToLower(strings.TrimSpace(gender))
}

// DisplayGender returns the presented (capitalized) form of a stored gender value.
func DisplayGender(gender string) string {
	if gender == "" {
		return ""
	}
	return strings.ToUpper(gender[:1]) + gender[1:]
}

// IsValidGender reports whether gender is one of the accepted values, ignoring case.
func IsValidGender(gender string) bool {
	g := NormalizeGender(gender)
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}

// NormalizeSkills trims every skill and drops empty entries.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
