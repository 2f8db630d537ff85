package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Name: letters, spaces, hyphens, apostrophes only.
var nameRe = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.@+\-]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires:
// - at least 8 characters
// - at least one letter
// - at least one number
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func IsValidName(name string) bool {
	return name != "" && nameRe.MatchString(name)
}

func IsValidUsername(username string) bool {
	return username != "" && len(username) <= 150 && usernameRe.MatchString(username)
}

// IsValidPhone accepts digits with optional +, spaces and hyphens.
func IsValidPhone(phone string) bool {
	if phone == "" {
		return false
	}
	stripped := strings.NewReplacer(" ", "", "-", "", "+", "", "(", "", ")", "").Replace(phone)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
