package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewManager([]byte("test-secret"), WithClock(clock.Now)), clock
}

// issued runs create against a recorder and returns the cookie it set.
func issued(t *testing.T, name string, create func(w http.ResponseWriter, r *http.Request) error) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, create(rec, httptest.NewRequest(http.MethodPost, "/", nil)))
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func requestWith(cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return r
}

func clearedCookie(rec *httptest.ResponseRecorder, name string) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestHostSessionRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	cookie := issued(t, HostCookie, func(w http.ResponseWriter, r *http.Request) error {
		return m.CreateHost(w, r, "host@example.com")
	})

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	rec := httptest.NewRecorder()
	assert.Equal(t, "host@example.com", m.HostEmail(rec, requestWith(cookie)))
	assert.False(t, clearedCookie(rec, HostCookie))
}

func TestHostSessionExpires(t *testing.T) {
	m, clock := newTestManager(t)
	cookie := issued(t, HostCookie, func(w http.ResponseWriter, r *http.Request) error {
		return m.CreateHost(w, r, "host@example.com")
	})

	clock.Advance(TTL - time.Second)
	assert.Equal(t, "host@example.com", m.HostEmail(httptest.NewRecorder(), requestWith(cookie)))

	clock.Advance(time.Second)
	rec := httptest.NewRecorder()
	assert.Empty(t, m.HostEmail(rec, requestWith(cookie)))
	assert.True(t, clearedCookie(rec, HostCookie), "expired cookie should be cleared")
}

func TestSessionRejectsTampering(t *testing.T) {
	m, _ := newTestManager(t)
	other := NewManager([]byte("other-secret"))

	forged := issued(t, HostCookie, func(w http.ResponseWriter, r *http.Request) error {
		return other.CreateHost(w, r, "host@example.com")
	})
	rec := httptest.NewRecorder()
	assert.Empty(t, m.HostEmail(rec, requestWith(forged)))
	assert.True(t, clearedCookie(rec, HostCookie))

	rec = httptest.NewRecorder()
	garbage := &http.Cookie{Name: HostCookie, Value: `{"email":"host@example.com"}`}
	assert.Empty(t, m.HostEmail(rec, requestWith(garbage)))
	assert.True(t, clearedCookie(rec, HostCookie))

	rec = httptest.NewRecorder()
	sentinel := &http.Cookie{Name: AdminCookie, Value: "authenticated"}
	assert.False(t, m.IsAdmin(rec, requestWith(sentinel)), "plain sentinel must not pass")
	assert.True(t, clearedCookie(rec, AdminCookie))
}

func TestDashboardSessionBoundToSlug(t *testing.T) {
	m, _ := newTestManager(t)
	cookie := issued(t, DashboardCookie, func(w http.ResponseWriter, r *http.Request) error {
		return m.CreateDashboard(w, r, "other-event", "sarah@x.com")
	})

	rec := httptest.NewRecorder()
	assert.Equal(t, "sarah@x.com", m.DashboardEmail(rec, requestWith(cookie), "other-event"))

	rec = httptest.NewRecorder()
	assert.Empty(t, m.DashboardEmail(rec, requestWith(cookie), "sarahs-wedding"))
	assert.False(t, clearedCookie(rec, DashboardCookie), "slug mismatch keeps the cookie")
}

func TestDashboardSessionExpires(t *testing.T) {
	m, clock := newTestManager(t)
	cookie := issued(t, DashboardCookie, func(w http.ResponseWriter, r *http.Request) error {
		return m.CreateDashboard(w, r, "party", "host@x.com")
	})

	clock.Advance(25 * time.Hour)
	rec := httptest.NewRecorder()
	assert.Empty(t, m.DashboardEmail(rec, requestWith(cookie), "party"))
	assert.True(t, clearedCookie(rec, DashboardCookie))
}

func TestCreateTwiceSameOutcome(t *testing.T) {
	m, clock := newTestManager(t)
	create := func(w http.ResponseWriter, r *http.Request) error {
		return m.CreateDashboard(w, r, "party", "host@x.com")
	}

	first := issued(t, DashboardCookie, create)
	clock.Advance(time.Second)
	second := issued(t, DashboardCookie, create)

	assert.NotEqual(t, first.Value, second.Value, "issue times should differ")

	var a, b dashboardClaims
	require.NoError(t, m.parse(first.Value, &a))
	require.NoError(t, m.parse(second.Value, &b))
	assert.True(t, b.IssuedAt.After(a.IssuedAt.Time))

	assert.Equal(t,
		m.DashboardEmail(httptest.NewRecorder(), requestWith(first), "party"),
		m.DashboardEmail(httptest.NewRecorder(), requestWith(second), "party"),
	)
}

func TestAdminSession(t *testing.T) {
	m, clock := newTestManager(t)
	assert.False(t, m.IsAdmin(httptest.NewRecorder(), requestWith()))

	cookie := issued(t, AdminCookie, func(w http.ResponseWriter, r *http.Request) error {
		return m.CreateAdmin(w, r)
	})
	assert.True(t, m.IsAdmin(httptest.NewRecorder(), requestWith(cookie)))

	// A host cookie signed with the same key is not an admin session.
	host := issued(t, HostCookie, func(w http.ResponseWriter, r *http.Request) error {
		return m.CreateHost(w, r, "host@example.com")
	})
	host.Name = AdminCookie
	assert.False(t, m.IsAdmin(httptest.NewRecorder(), requestWith(host)))

	clock.Advance(TTL)
	assert.False(t, m.IsAdmin(httptest.NewRecorder(), requestWith(cookie)))
}

func TestClear(t *testing.T) {
	m, _ := newTestManager(t)
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	rec := httptest.NewRecorder()
	m.ClearHost(rec, r)
	m.ClearDashboard(rec, r)
	m.ClearAdmin(rec, r)

	for _, name := range []string{HostCookie, DashboardCookie, AdminCookie} {
		assert.True(t, clearedCookie(rec, name), name)
	}
}
