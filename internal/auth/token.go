package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/model"
	"github.com/dukerupert/rsvp/internal/store"
)

// TokenIssuer creates one-use host tokens. Callers must already hold an
// admin session.
type TokenIssuer struct {
	hosts *store.HostStore
}

func NewTokenIssuer(hosts *store.HostStore) *TokenIssuer {
	return &TokenIssuer{hosts: hosts}
}

// Issue stores a fresh 256-bit token for email.
func (ti *TokenIssuer) Issue(ctx context.Context, email string) (*model.Host, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperr.Invalid("email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, apperr.Invalid("email is not a valid email address")
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	h, err := ti.hosts.Create(ctx, email, token)
	if errors.Is(err, apperr.ErrDuplicateToken) {
		return nil, err
	}
	if err != nil {
		return nil, apperr.Persistence("issue token", err)
	}
	return h, nil
}

// GenerateToken returns 32 random bytes, hex-encoded.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
