// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"chirp/internal/models"
)

const (
	// MaxTweetLength is the rune cap shared by tweets and replies.
	MaxTweetLength = 280

	// MinimumAge is the youngest age allowed to sign up.
	MinimumAge = 18

	minPasswordLength = 8

	birthdateLayout = "2006-01-02"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// SignUpRequest carries the fields accepted at sign-up. Anything else in
// the request body is ignored.
type SignUpRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Birthdate string `json:"birthdate"`
}

// ValidateSignUp checks every sign-up field and returns one entry per
// failing field, so clients can render them all at once.
func ValidateSignUp(req SignUpRequest) []models.FieldError {
	var errs []models.FieldError

	if req.FirstName == "" {
		errs = append(errs, models.FieldError{Field: "firstName", Message: "First Name CANNOT be empty"})
	}
	if req.LastName == "" {
		errs = append(errs, models.FieldError{Field: "lastName", Message: "Last Name CANNOT be empty"})
	}
	if req.UserName == "" {
		errs = append(errs, models.FieldError{Field: "userName", Message: "Username CANNOT be empty"})
	}
	if req.Email == "" || !emailRegex.MatchString(req.Email) {
		errs = append(errs, models.FieldError{Field: "email", Message: "Email CANNOT be empty and must be a valid `email`"})
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		errs = append(errs, models.FieldError{Field: "password", Message: "Password CANNOT be empty and should be a minimum of 8 characters"})
	}

	return errs
}

// ValidateSignIn checks sign-in credentials by email. The password rule
// mirrors sign-up so a credential that could never have been created is
// rejected before touching the database.
func ValidateSignIn(email, password string) []models.FieldError {
	var errs []models.FieldError

	if email == "" || !emailRegex.MatchString(email) {
		errs = append(errs, models.FieldError{Field: "email", Message: "Email CANNOT be empty and must be a valid `email`"})
	}
	if password == "" {
		errs = append(errs, models.FieldError{Field: "password", Message: "Password CANNOT be empty"})
	}

	return errs
}

// ValidateTweetContent enforces the 1-280 rune bound shared by tweets
// and replies. Length is counted in runes, not bytes, so multi-byte
// characters are not over-counted.
func ValidateTweetContent(content string) error {
	n := utf8.RuneCountInString(content)
	if n == 0 || n > MaxTweetLength {
		return fmt.Errorf("Tweets must have 1-280 characters")
	}
	return nil
}

// ParseBirthdate parses a YYYY-MM-DD birthdate string.
func ParseBirthdate(s string) (time.Time, error) {
	return time.Parse(birthdateLayout, s)
}

// Age computes full years elapsed between birthdate and now.
func Age(birthdate, now time.Time) int {
	years := now.Year() - birthdate.Year()
	anniversary := birthdate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
