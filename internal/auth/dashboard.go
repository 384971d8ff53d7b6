package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/model"
	"github.com/dukerupert/rsvp/internal/session"
	"github.com/dukerupert/rsvp/internal/store"
)

// DashboardVerifier grants per-event dashboard sessions to the event's host.
type DashboardVerifier struct {
	events   *store.EventStore
	sessions *session.Manager
}

func NewDashboardVerifier(events *store.EventStore, sessions *session.Manager) *DashboardVerifier {
	return &DashboardVerifier{events: events, sessions: sessions}
}

// VerifyAndCreateSession issues a dashboard session for slug when email is
// exactly the event's host email.
func (v *DashboardVerifier) VerifyAndCreateSession(ctx context.Context, w http.ResponseWriter, r *http.Request, slug, email string) error {
	email = strings.TrimSpace(email)
	e, err := v.events.GetBySlug(ctx, slug)
	if err != nil {
		return apperr.Persistence("look up event", err)
	}
	if e == nil || e.HostEmail != email {
		return apperr.ErrAccessDenied
	}
	return v.sessions.CreateDashboard(w, r, slug, email)
}

// EventsForEmail lists the active events hosted by email. When slug is set
// it must be one of them.
func (v *DashboardVerifier) EventsForEmail(ctx context.Context, email, slug string) ([]model.Event, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperr.ErrNotFound
	}
	events, err := v.events.ListActiveByHost(ctx, email)
	if err != nil {
		return nil, apperr.Persistence("list events by email", err)
	}
	if len(events) == 0 {
		return nil, apperr.ErrNotFound
	}
	if slug == "" {
		return events, nil
	}
	for _, e := range events {
		if e.Slug == slug {
			return events, nil
		}
	}
	return nil, apperr.ErrAccessDenied
}
