package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid Email")
	ErrIncorrectPassword     = errors.New("Incorrect Password")
	ErrNotAuthenticated      = errors.New("Not authenticated")
	ErrEmailTaken            = errors.New("An account with this email already exists")
	ErrWeakPassword          = errors.New("Password must be at least 8 characters with a letter, a number and a special character")
	ErrInvalidRole           = errors.New("Role must be investor or syndicator")
)
