package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/rsvp/internal/auth"
	"github.com/dukerupert/rsvp/internal/model"
	"github.com/dukerupert/rsvp/internal/session"
)

type AuthHandler struct {
	loginService *auth.LoginService
	verifier     *auth.DashboardVerifier
	admin        *auth.AdminAuthenticator
	sessions     *session.Manager
	logger       *slog.Logger
}

func NewAuthHandler(
	ls *auth.LoginService,
	dv *auth.DashboardVerifier,
	admin *auth.AdminAuthenticator,
	sessions *session.Manager,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		loginService: ls,
		verifier:     dv,
		admin:        admin,
		sessions:     sessions,
		logger:       logger,
	}
}

type hostLoginRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type hostLoginResponse struct {
	Success  bool          `json:"success"`
	Redirect string        `json:"redirect,omitempty"`
	NoEvents bool          `json:"no_events,omitempty"`
	Events   []model.Event `json:"events,omitempty"`
}

// HostLogin exchanges an email and one-use token for a host session.
func (h *AuthHandler) HostLogin(w http.ResponseWriter, r *http.Request) {
	var req hostLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	current := h.sessions.HostEmail(w, r)
	res, err := h.loginService.Login(r.Context(), req.Email, req.Token, current)
	if err != nil {
		h.logger.Info("host login failed", "error", err)
		writeAppError(w, h.logger, err, "login failed")
		return
	}

	if !res.Reused {
		if err := h.sessions.CreateHost(w, r, res.Email); err != nil {
			h.logger.Error("create host session", "error", err)
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}
	}

	writeJSON(w, http.StatusOK, hostLoginResponse{
		Success:  true,
		Redirect: res.Redirect,
		NoEvents: res.NoEvents,
		Events:   res.Events,
	})
}

func (h *AuthHandler) HostLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearHost(w, r)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type verifyRequest struct {
	Slug  string `json:"slug"`
	Email string `json:"email"`
}

// Verify grants a dashboard session for one event to its host's email.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required")
		return
	}

	if err := h.verifier.VerifyAndCreateSession(r.Context(), w, r, req.Slug, req.Email); err != nil {
		writeAppError(w, h.logger, err, "verification failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "redirect": "/dashboard/" + req.Slug})
}

// VerifyEvents lists the active events an email hosts.
func (h *AuthHandler) VerifyEvents(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	events, err := h.verifier.EventsForEmail(r.Context(), req.Email, req.Slug)
	if err != nil {
		writeAppError(w, h.logger, err, "verification failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "events": events})
}

func (h *AuthHandler) DashboardLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearDashboard(w, r)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.admin.Login(req.Email, req.Password); err != nil {
		h.logger.Warn("admin login failed")
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err := h.sessions.CreateAdmin(w, r); err != nil {
		h.logger.Error("create admin session", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "redirect": "/admin/hosts"})
}

func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearAdmin(w, r)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// loginForm tells a client that was redirected to a login boundary what to
// submit there.
type loginForm struct {
	Login  string   `json:"login"`
	Method string   `json:"method"`
	Action string   `json:"action"`
	Fields []string `json:"fields"`
	Slug   string   `json:"slug,omitempty"`
}

// HostLoginForm answers GET / with the host login form.
func (h *AuthHandler) HostLoginForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, loginForm{
		Login:  "host",
		Method: http.MethodPost,
		Action: "/host-login",
		Fields: []string{"email", "token"},
	})
}

// VerifyForm answers GET /verify with the dashboard verification form for
// the slug in the query string.
func (h *AuthHandler) VerifyForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, loginForm{
		Login:  "dashboard",
		Method: http.MethodPost,
		Action: "/verify",
		Fields: []string{"slug", "email"},
		Slug:   r.URL.Query().Get("slug"),
	})
}

func (h *AuthHandler) AdminLoginForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, loginForm{
		Login:  "admin",
		Method: http.MethodPost,
		Action: "/admin/login",
		Fields: []string{"email", "password"},
	})
}
