package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/event"
	"github.com/dukerupert/rsvp/internal/middleware"
	"github.com/dukerupert/rsvp/internal/store"
	"github.com/dukerupert/rsvp/internal/websocket"
)

const maxUserAgentLen = 512

type RSVPHandler struct {
	eventStore *store.EventStore
	rsvpStore  *store.RSVPStore
	hub        *websocket.Hub
	logger     *slog.Logger
	now        func() time.Time
}

func NewRSVPHandler(es *store.EventStore, rs *store.RSVPStore, hub *websocket.Hub, logger *slog.Logger) *RSVPHandler {
	return &RSVPHandler{eventStore: es, rsvpStore: rs, hub: hub, logger: logger, now: time.Now}
}

// Submit records a guest's response to an active event.
func (h *RSVPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	e, err := h.eventStore.GetActiveBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("get event", err), "failed to submit RSVP")
		return
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	var in event.RSVPInput
	if !decodeJSON(w, r, &in) {
		return
	}

	rsvp, err := in.BuildRSVP(e, h.now())
	if err != nil {
		writeAppError(w, h.logger, err, "failed to submit RSVP")
		return
	}
	ip := middleware.RealIP(r)
	rsvp.IPAddress = &ip
	if ua := r.UserAgent(); ua != "" {
		if len(ua) > maxUserAgentLen {
			ua = ua[:maxUserAgentLen]
		}
		rsvp.UserAgent = &ua
	}

	created, err := h.rsvpStore.Create(r.Context(), rsvp)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("create rsvp", err), "failed to submit RSVP")
		return
	}

	h.logger.Info("rsvp received", "event_id", e.ID, "rsvp_id", created.ID, "status", created.AttendanceStatus)
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage(websocket.EntityRSVP, websocket.ActionInsert, e.ID, created.ID, created))
	}
	writeJSON(w, http.StatusCreated, created)
}
