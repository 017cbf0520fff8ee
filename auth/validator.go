package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest carries the fields checked at account creation.
// The bounds mirror the profile store's schema: usernames are 3-30
// characters, passwords at least 6 (72 is the practical upper bound
// before hashing).
type RegisterRequest struct {
	Username string `validate:"required,min=3,max=30"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

func ValidateRegister(req RegisterRequest) error {
	return validate.Struct(req)
}

// ProfileUpdate holds the mutable profile fields. Empty strings mean
// "leave unchanged"; validation only applies to provided values.
type ProfileUpdate struct {
	Username string `validate:"omitempty,min=3,max=30"`
	Email    string `validate:"omitempty,email"`
}

func ValidateProfileUpdate(upd ProfileUpdate) error {
	return validate.Struct(upd)
}
