package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/rsvp/internal/apperr"
)

// AdminAuthenticator checks the single operator credential pair.
type AdminAuthenticator struct {
	email        string
	passwordHash []byte
}

func NewAdminAuthenticator(email, passwordHash string) *AdminAuthenticator {
	return &AdminAuthenticator{email: email, passwordHash: []byte(passwordHash)}
}

// Configured reports whether admin login is possible at all.
func (a *AdminAuthenticator) Configured() bool {
	return a.email != "" && len(a.passwordHash) > 0
}

func (a *AdminAuthenticator) Login(email, password string) error {
	if !a.Configured() {
		return apperr.ErrInvalidCredentials
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(email)), []byte(a.email)) == 1
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil || !emailOK {
		return apperr.ErrInvalidCredentials
	}
	return nil
}
