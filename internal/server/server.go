package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dukerupert/rsvp/internal/auth"
	"github.com/dukerupert/rsvp/internal/blob"
	"github.com/dukerupert/rsvp/internal/email"
	"github.com/dukerupert/rsvp/internal/handler"
	"github.com/dukerupert/rsvp/internal/middleware"
	"github.com/dukerupert/rsvp/internal/qrcode"
	"github.com/dukerupert/rsvp/internal/session"
	"github.com/dukerupert/rsvp/internal/store"
	ws "github.com/dukerupert/rsvp/internal/websocket"
)

const (
	loginLimit  = 10
	createLimit = 10
	rsvpLimit   = 30
	limitWindow = time.Minute
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	sessions    *session.Manager
	eventH      *handler.EventHandler
	rsvpH       *handler.RSVPHandler
	dashboardH  *handler.DashboardHandler
	authH       *handler.AuthHandler
	adminH      *handler.AdminHandler
	uploadH     *handler.UploadHandler
	proxies     *middleware.TrustedProxies
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

type Config struct {
	BaseURL           string
	SessionSecret     []byte
	AdminEmail        string
	AdminPasswordHash string
	BlobStore         *blob.Store
	EmailClient       *email.Client
	QRClient          *qrcode.Client
	// TrustedProxies decides whose forwarding headers name the client.
	// Nil keys every request on its socket peer.
	TrustedProxies *middleware.TrustedProxies
	// SessionOptions are passed to the session manager.
	SessionOptions []session.Option
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionOptions...)

	hostStore := store.NewHostStore(db)
	eventStore := store.NewEventStore(db)
	rsvpStore := store.NewRSVPStore(db)

	gate := auth.NewGate(sessions)
	loginService := auth.NewLoginService(hostStore, eventStore)
	verifier := auth.NewDashboardVerifier(eventStore, sessions)
	admin := auth.NewAdminAuthenticator(cfg.AdminEmail, cfg.AdminPasswordHash)
	issuer := auth.NewTokenIssuer(hostStore)

	blobStore := cfg.BlobStore
	if blobStore == nil {
		blobStore = blob.New(blob.Config{})
	}
	qrClient := cfg.QRClient
	if qrClient == nil {
		qrClient = qrcode.NewClient("")
	}

	return &Server{
		db:          db,
		hub:         hub,
		sessions:    sessions,
		eventH:      handler.NewEventHandler(eventStore, gate, hub, cfg.BaseURL, logger.With("component", "event")),
		rsvpH:       handler.NewRSVPHandler(eventStore, rsvpStore, hub, logger.With("component", "rsvp")),
		dashboardH:  handler.NewDashboardHandler(eventStore, rsvpStore, gate, hub, qrClient, cfg.BaseURL, originPatterns(cfg.BaseURL), logger.With("component", "dashboard")),
		authH:       handler.NewAuthHandler(loginService, verifier, admin, sessions, logger.With("component", "auth")),
		adminH:      handler.NewAdminHandler(hostStore, issuer, cfg.EmailClient, logger.With("component", "admin")),
		uploadH:     handler.NewUploadHandler(blobStore, logger.With("component", "upload")),
		proxies:     cfg.TrustedProxies,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the realtime hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthCheck)

	// Public event and RSVP routes
	mux.HandleFunc("POST /api/events", s.limited("create-event", createLimit, s.eventH.Create))
	mux.HandleFunc("GET /api/rsvp/{slug}", s.eventH.Public)
	mux.HandleFunc("POST /api/rsvp/{slug}", s.limited("rsvp", rsvpLimit, s.rsvpH.Submit))
	mux.HandleFunc("GET /api/rsvp/{slug}/calendar.ics", s.eventH.Calendar)
	mux.HandleFunc("POST /upload", s.limited("upload", createLimit, s.uploadH.Upload))

	// Login and logout
	mux.HandleFunc("GET /{$}", s.authH.HostLoginForm)
	mux.HandleFunc("GET /verify", s.authH.VerifyForm)
	mux.HandleFunc("GET /admin/login", s.authH.AdminLoginForm)
	mux.HandleFunc("POST /host-login", s.limited("host-login", loginLimit, s.authH.HostLogin))
	mux.HandleFunc("POST /host-logout", s.authH.HostLogout)
	mux.HandleFunc("POST /verify", s.limited("verify", loginLimit, s.authH.Verify))
	mux.HandleFunc("POST /verify/events", s.limited("verify", loginLimit, s.authH.VerifyEvents))
	mux.HandleFunc("POST /dashboard-logout", s.authH.DashboardLogout)
	mux.HandleFunc("POST /admin/login", s.limited("admin-login", loginLimit, s.authH.AdminLogin))
	mux.HandleFunc("POST /admin/logout", s.authH.AdminLogout)

	// Admin routes
	adminMw := middleware.RequireAdmin(s.sessions)
	mux.Handle("GET /admin/hosts", adminMw(http.HandlerFunc(s.adminH.ListHosts)))
	mux.Handle("POST /admin/hosts", adminMw(http.HandlerFunc(s.adminH.CreateHost)))
	mux.Handle("POST /admin/hosts/{id}/sent", adminMw(http.HandlerFunc(s.adminH.MarkSent)))
	mux.Handle("POST /admin/hosts/{id}/send", adminMw(http.HandlerFunc(s.adminH.SendToken)))

	// Host event selection
	mux.Handle("GET /dashboard", middleware.RequireHost(s.sessions)(http.HandlerFunc(s.dashboardH.HostEvents)))

	// Owner routes, gated per event
	mux.HandleFunc("GET /dashboard/{slug}", s.dashboardH.Show)
	mux.HandleFunc("GET /dashboard/{slug}/rsvps", s.dashboardH.RSVPs)
	mux.HandleFunc("GET /dashboard/{slug}/rsvps.csv", s.dashboardH.ExportCSV)
	mux.HandleFunc("DELETE /dashboard/{slug}/rsvps/{id}", s.dashboardH.DeleteRSVP)
	mux.HandleFunc("GET /dashboard/{slug}/qr", s.dashboardH.QRCode)
	mux.HandleFunc("GET /dashboard/{slug}/ws", s.dashboardH.Feed)
	mux.HandleFunc("PATCH /events/{id}", s.eventH.Update)
	mux.HandleFunc("DELETE /events/{id}", s.eventH.Delete)

	logged := middleware.RequestLogger(s.logger.With("component", "http"))(mux)
	return middleware.ClientIP(s.proxies)(logged)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// limited rate-limits h per client IP. Routes sharing a bucket share a budget.
func (s *Server) limited(bucket string, limit int, h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.ByIP(bucket), limit, limitWindow)
	return rl(h).ServeHTTP
}

// originPatterns allows websocket upgrades from the public site's host.
func originPatterns(baseURL string) []string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
