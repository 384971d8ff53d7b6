package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dukerupert/rsvp/internal/database"
	"github.com/dukerupert/rsvp/internal/model"
	"github.com/dukerupert/rsvp/internal/session"
	"github.com/dukerupert/rsvp/internal/store"
)

type testEnv struct {
	hosts    *store.HostStore
	events   *store.EventStore
	sessions *session.Manager
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &testEnv{
		hosts:    store.NewHostStore(db),
		events:   store.NewEventStore(db),
		sessions: session.NewManager([]byte("test-secret")),
	}
}

func (env *testEnv) createEvent(t *testing.T, slug, hostEmail string) *model.Event {
	t.Helper()
	e, err := env.events.Create(context.Background(), &model.Event{
		EventType:  model.EventTypeWedding,
		Title:      "Test " + slug,
		Date:       "2026-06-20 16:00",
		Location:   "Somewhere",
		Slug:       slug,
		ThemeColor: model.DefaultThemeColor,
		HostName:   "Host",
		HostEmail:  hostEmail,
	})
	require.NoError(t, err)
	return e
}

// cookiesFrom copies the cookies set on rec onto a fresh request.
func cookiesFrom(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return r
}
