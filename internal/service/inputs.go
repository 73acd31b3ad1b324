package service

import "io"

// RegisterInput is the registration form.
type RegisterInput struct {
	Username        string `json:"username" form:"username" validate:"required,min=2,max=20"`
	Email           string `json:"email" form:"email" validate:"required,email,max=120"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"omitempty,eqfield=Password"`
	// Blind selects the "blind" role; unchecked registers a scribe.
	Blind bool `json:"blind" form:"blind"`
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Remember bool   `json:"remember" form:"remember"`
}

// ProfileInput is the account update form.
type ProfileInput struct {
	Username string `json:"username" form:"username" validate:"required,min=2,max=20"`
	Email    string `json:"email" form:"email" validate:"required,email,max=120"`
}

// ProfileImage is an uploaded profile picture.
type ProfileImage struct {
	Filename string
	Content  io.Reader
}

// RequestInput is the create/update form of a scribe request.
type RequestInput struct {
	ExamDate    string `json:"exam_date" form:"exam_date" validate:"required,max=32"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"required,max=20"`
	Address     string `json:"address" form:"address" validate:"required,max=500"`
}
