package model

import "time"

// Role distinguishes requesters from volunteers. It is chosen at registration.
type Role string

const (
	// RoleBlind marks a student who requests scribes.
	RoleBlind Role = "blind"
	// RoleScribe marks a volunteer who writes exams for blind students.
	RoleScribe Role = "scribe"
)

// DefaultImageFile is the profile image assigned to new users.
const DefaultImageFile = "default.jpg"

// User represents a registered student or volunteer.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:20;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string    `json:"-" gorm:"size:60;not null"` // Never expose in JSON
	ImageFile    string    `json:"image_file" gorm:"size:64;not null;default:'default.jpg'"`
	Role         Role      `json:"role" gorm:"size:10;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleFromFlag maps the registration "blind" checkbox to a role.
func RoleFromFlag(blind bool) Role {
	if blind {
		return RoleBlind
	}
	return RoleScribe
}
