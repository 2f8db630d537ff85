package auth

import "errors"

var (
	ErrCredentialsRequired  = errors.New("Username and password are required")
	ErrWrongCredentials     = errors.New("Wrong username or password")
	ErrUnknownAccountType   = errors.New("Account type not recognized")
	ErrUsernameTaken        = errors.New("Username already registered")
	ErrEmailTaken           = errors.New("Email already registered")
	ErrInvalidEmail         = errors.New("Invalid email format")
	ErrInvalidPassword      = errors.New("Password must be at least 8 characters and contain letters and numbers")
	ErrInvalidName          = errors.New("Names may only contain letters, spaces, hyphens, and apostrophes")
	ErrInvalidUsername      = errors.New("Invalid username")
	ErrInvalidPhone         = errors.New("Please enter a valid phone number.")
	ErrMissingFields        = errors.New("All required fields must be filled")
	ErrOldPasswordIncorrect = errors.New("Your old password was entered incorrectly.")
	ErrPasswordsDontMatch   = errors.New("The two password fields didn't match.")
	ErrNotAuthenticated     = errors.New("Not authenticated")
)
