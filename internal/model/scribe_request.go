package model

import "time"

// RequestStatus tracks whether a scribe request has been taken by a volunteer.
type RequestStatus string

const (
	RequestStatusOpen     RequestStatus = "open"
	RequestStatusAccepted RequestStatus = "accepted"
)

// ScribeRequest is a blind student's request for a scribe at an exam.
type ScribeRequest struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	UserID       uint          `json:"user_id" gorm:"not null;index"`
	Author       *User         `json:"author,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ExamDate     string        `json:"exam_date" gorm:"size:32;not null"`
	PhoneNumber  string        `json:"phone_number" gorm:"size:20;not null"`
	Address      string        `json:"address" gorm:"type:text;not null"`
	Status       RequestStatus `json:"status" gorm:"size:16;not null;default:'open';index"`
	AcceptedByID *uint         `json:"accepted_by_id,omitempty"`
	AcceptedAt   *time.Time    `json:"accepted_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// OwnedBy reports whether userID owns the request.
func (r *ScribeRequest) OwnedBy(userID uint) bool {
	return r != nil && r.UserID == userID
}
