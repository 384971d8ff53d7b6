package auth

import (
	"net/http"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/model"
	"github.com/dukerupert/rsvp/internal/session"
)

// Gate decides whether a request may act on an event as its owner.
type Gate struct {
	sessions *session.Manager
}

func NewGate(sessions *session.Manager) *Gate {
	return &Gate{sessions: sessions}
}

// Authorize returns the owner email when the request carries a dashboard
// session for the event's slug or a host session for its host email.
func (g *Gate) Authorize(w http.ResponseWriter, r *http.Request, e *model.Event) (string, error) {
	if e == nil || e.HostEmail == "" {
		return "", apperr.ErrAccessDenied
	}
	if email := g.sessions.DashboardEmail(w, r, e.Slug); email != "" && email == e.HostEmail {
		return email, nil
	}
	if email := g.sessions.HostEmail(w, r); email != "" && email == e.HostEmail {
		return email, nil
	}
	return "", apperr.ErrAccessDenied
}
