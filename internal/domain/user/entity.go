package user

import (
	"regexp"
	"strings"
	"time"

	"github.com/turtacn/H2Siting/pkg/errors"
)

// AuthProvider records how an account was registered.
type AuthProvider string

const (
	ProviderManual AuthProvider = "manual"
	ProviderGoogle AuthProvider = "google"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// User represents a registered account.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	AuthProvider AuthProvider `json:"auth_provider"`
	IsActive     bool         `json:"is_active"`
	PictureURL   string       `json:"picture,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewManualUser builds an email/password account. The password must already
// be hashed.
func NewManualUser(username, email, passwordHash string) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.InvalidParam("All fields are required.")
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		AuthProvider: ProviderManual,
		IsActive:     true,
	}, nil
}

// NewGoogleUser builds an account for a first Google sign-in. The username
// falls back to the local part of the email when Google supplies no name.
func NewGoogleUser(name, email, picture string) (*User, error) {
	if email == "" {
		return nil, errors.New(errors.ErrCodeOAuthExchange, "Google did not return an email address")
	}
	if strings.TrimSpace(name) == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return &User{
		Username:     name,
		Email:        email,
		AuthProvider: ProviderGoogle,
		IsActive:     true,
		PictureURL:   picture,
	}, nil
}

// IsManual reports whether the account signs in with a password.
func (u *User) IsManual() bool { return u.AuthProvider == ProviderManual }

// ValidateEmail checks the address against the accepted format.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return errors.InvalidParam("Invalid email format.")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.InvalidParam("Password must be at least 8 characters long.")
	}
	return nil
}

//Personal.AI order the ending
