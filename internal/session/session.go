// Package session issues and reads the signed cookies that carry host,
// dashboard and admin sessions. Sessions live only in the cookie; there is
// no server-side table.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	HostCookie      = "host_dashboard_session"
	DashboardCookie = "event_dashboard_session"
	AdminCookie     = "admin_session"

	// TTL bounds every session, measured from its issue time.
	TTL = 24 * time.Hour

	adminSubject = "authenticated"
)

var errExpired = errors.New("session expired")

type hostClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type dashboardClaims struct {
	jwt.RegisteredClaims
	Slug  string `json:"slug"`
	Email string `json:"email"`
}

// Manager signs session cookies with HS256.
type Manager struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Manager)

// WithClock overrides the time source used for issuing and expiring sessions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(secret []byte, opts ...Option) *Manager {
	m := &Manager{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateHost starts a host session for email.
func (m *Manager) CreateHost(w http.ResponseWriter, r *http.Request, email string) error {
	claims := &hostClaims{RegisteredClaims: m.registered(""), Email: email}
	return m.set(w, r, HostCookie, claims)
}

// HostEmail returns the email of a live host session, or "". A cookie that
// fails to verify or has expired is cleared.
func (m *Manager) HostEmail(w http.ResponseWriter, r *http.Request) string {
	var claims hostClaims
	if !m.read(w, r, HostCookie, &claims) {
		return ""
	}
	return claims.Email
}

func (m *Manager) ClearHost(w http.ResponseWriter, r *http.Request) {
	expire(w, r, HostCookie)
}

// CreateDashboard starts a session scoped to one event slug.
func (m *Manager) CreateDashboard(w http.ResponseWriter, r *http.Request, slug, email string) error {
	claims := &dashboardClaims{RegisteredClaims: m.registered(""), Slug: slug, Email: email}
	return m.set(w, r, DashboardCookie, claims)
}

// DashboardEmail returns the session email when the cookie was issued for
// slug. A session for another slug yields "" but is left in place.
func (m *Manager) DashboardEmail(w http.ResponseWriter, r *http.Request, slug string) string {
	var claims dashboardClaims
	if !m.read(w, r, DashboardCookie, &claims) {
		return ""
	}
	if claims.Slug != slug {
		return ""
	}
	return claims.Email
}

func (m *Manager) ClearDashboard(w http.ResponseWriter, r *http.Request) {
	expire(w, r, DashboardCookie)
}

func (m *Manager) CreateAdmin(w http.ResponseWriter, r *http.Request) error {
	claims := m.registered(adminSubject)
	return m.set(w, r, AdminCookie, &claims)
}

func (m *Manager) IsAdmin(w http.ResponseWriter, r *http.Request) bool {
	var claims jwt.RegisteredClaims
	if !m.read(w, r, AdminCookie, &claims) {
		return false
	}
	return claims.Subject == adminSubject
}

func (m *Manager) ClearAdmin(w http.ResponseWriter, r *http.Request) {
	expire(w, r, AdminCookie)
}

func (m *Manager) registered(subject string) jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	}
}

func (m *Manager) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (m *Manager) set(w http.ResponseWriter, r *http.Request, name string, claims jwt.Claims) error {
	value, err := m.sign(claims)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return nil
}

// read verifies the named cookie into claims. Any failure clears the cookie.
func (m *Manager) read(w http.ResponseWriter, r *http.Request, name string, claims jwt.Claims) bool {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return false
	}
	if err := m.parse(cookie.Value, claims); err != nil {
		expire(w, r, name)
		return false
	}
	return true
}

func (m *Manager) parse(value string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return err
	}

	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return errExpired
	}
	if m.now().Sub(iat.Time) >= TTL {
		return errExpired
	}
	return nil
}

func expire(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		Expires:  time.Unix(0, 0),
	})
}
