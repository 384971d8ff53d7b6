package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/auth"
	"github.com/dukerupert/rsvp/internal/email"
	"github.com/dukerupert/rsvp/internal/model"
	"github.com/dukerupert/rsvp/internal/store"
)

type AdminHandler struct {
	hostStore   *store.HostStore
	issuer      *auth.TokenIssuer
	emailClient *email.Client
	logger      *slog.Logger
}

func NewAdminHandler(hs *store.HostStore, issuer *auth.TokenIssuer, ec *email.Client, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{hostStore: hs, issuer: issuer, emailClient: ec, logger: logger}
}

func (h *AdminHandler) ListHosts(w http.ResponseWriter, r *http.Request) {
	hosts, err := h.hostStore.List(r.Context())
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("list hosts", err), "failed to list hosts")
		return
	}
	if hosts == nil {
		hosts = []model.Host{}
	}
	writeJSON(w, http.StatusOK, hosts)
}

type createHostRequest struct {
	Email string `json:"email"`
}

// CreateHost issues a one-use token for a new host.
func (h *AdminHandler) CreateHost(w http.ResponseWriter, r *http.Request) {
	var req createHostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	host, err := h.issuer.Issue(r.Context(), req.Email)
	if err != nil {
		writeAppError(w, h.logger, err, "failed to create token")
		return
	}

	h.logger.Info("host token issued", "host_id", host.ID)
	writeJSON(w, http.StatusCreated, host)
}

func (h *AdminHandler) MarkSent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	host, err := h.hostStore.MarkSent(r.Context(), id)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("mark host sent", err), "failed to update host")
		return
	}
	if host == nil {
		writeError(w, http.StatusNotFound, "host not found")
		return
	}
	writeJSON(w, http.StatusOK, host)
}

// SendToken emails the host their token and marks it sent.
func (h *AdminHandler) SendToken(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if h.emailClient == nil || !h.emailClient.Configured() {
		writeError(w, http.StatusServiceUnavailable, "email delivery is not configured")
		return
	}

	host, err := h.hostStore.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("get host", err), "failed to send token")
		return
	}
	if host == nil {
		writeError(w, http.StatusNotFound, "host not found")
		return
	}
	if host.TokenUsed {
		writeError(w, http.StatusConflict, "token has already been used")
		return
	}

	if err := h.emailClient.SendHostToken(r.Context(), host.Email, host.Token); err != nil {
		h.logger.Error("send host token", "host_id", host.ID, "error", err)
		writeError(w, http.StatusBadGateway, "failed to send email")
		return
	}

	updated, err := h.hostStore.MarkSent(r.Context(), id)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("mark host sent", err), "failed to update host")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
