package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/auth"
	"github.com/dukerupert/rsvp/internal/event"
	"github.com/dukerupert/rsvp/internal/model"
	"github.com/dukerupert/rsvp/internal/store"
	"github.com/dukerupert/rsvp/internal/websocket"
)

const maxSlugAttempts = 5

type EventHandler struct {
	eventStore *store.EventStore
	gate       *auth.Gate
	hub        *websocket.Hub
	baseURL    string
	logger     *slog.Logger
	now        func() time.Time
}

func NewEventHandler(es *store.EventStore, gate *auth.Gate, hub *websocket.Hub, baseURL string, logger *slog.Logger) *EventHandler {
	return &EventHandler{eventStore: es, gate: gate, hub: hub, baseURL: baseURL, logger: logger, now: time.Now}
}

func (h *EventHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type createEventResponse struct {
	Event        *model.Event `json:"event"`
	RSVPURL      string       `json:"rsvp_url"`
	DashboardURL string       `json:"dashboard_url"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in event.Input
	if !decodeJSON(w, r, &in) {
		return
	}

	e, err := in.Build()
	if err != nil {
		writeAppError(w, h.logger, err, "failed to create event")
		return
	}

	slug, err := h.uniqueSlug(r, e.Title)
	if err != nil {
		writeAppError(w, h.logger, err, "failed to create event")
		return
	}
	e.Slug = slug

	created, err := h.eventStore.Create(r.Context(), e)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("create event", err), "failed to create event")
		return
	}

	writeJSON(w, http.StatusCreated, createEventResponse{
		Event:        created,
		RSVPURL:      rsvpURL(h.baseURL, created.Slug),
		DashboardURL: h.baseURL + "/dashboard/" + created.Slug,
	})
}

func (h *EventHandler) uniqueSlug(r *http.Request, title string) (string, error) {
	for range maxSlugAttempts {
		slug, err := event.GenerateSlug(title)
		if err != nil {
			return "", err
		}
		exists, err := h.eventStore.SlugExists(r.Context(), slug)
		if err != nil {
			return "", apperr.Persistence("check slug", err)
		}
		if !exists {
			return slug, nil
		}
	}
	return "", apperr.Invalid("could not generate a unique link for this event, please try again")
}

// Public serves the guest view of an active event.
func (h *EventHandler) Public(w http.ResponseWriter, r *http.Request) {
	e, ok := h.activeEvent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e.Public(event.IsRSVPOpen(e, h.now())))
}

func (h *EventHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	e, ok := h.activeEvent(w, r)
	if !ok {
		return
	}

	ics, err := event.Calendar(e, calendarHost(h.baseURL), h.now())
	if err != nil {
		h.logger.Warn("render calendar", "slug", e.Slug, "error", err)
		writeError(w, http.StatusUnprocessableEntity, "event date cannot be exported")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+event.CalendarFilename(e)+`"`)
	w.Write([]byte(ics))
}

func (h *EventHandler) activeEvent(w http.ResponseWriter, r *http.Request) (*model.Event, bool) {
	e, err := h.eventStore.GetActiveBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("get event", err), "failed to get event")
		return nil, false
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return nil, false
	}
	return e, true
}

// Update applies a partial update. The write is filtered on the email the
// gate accepted, so a stale or foreign session changes nothing.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	e, email, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	var patch event.Patch
	if !decodeJSON(w, r, &patch) {
		return
	}
	next, err := patch.Apply(e)
	if err != nil {
		writeAppError(w, h.logger, err, "failed to update event")
		return
	}

	updated, err := h.eventStore.Update(r.Context(), next, email)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("update event", err), "failed to update event")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityEvent, websocket.ActionUpdate, updated.ID, updated.ID, updated))
	writeJSON(w, http.StatusOK, updated)
}

// Delete soft-deletes the event. Guests stop seeing it; the owner's
// dashboard keeps working.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	e, email, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	found, err := h.eventStore.Deactivate(r.Context(), e.ID, email)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("deactivate event", err), "failed to delete event")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityEvent, websocket.ActionDelete, e.ID, e.ID, nil))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *EventHandler) ownedEvent(w http.ResponseWriter, r *http.Request) (*model.Event, string, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, "", false
	}

	e, err := h.eventStore.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("get event", err), "failed to get event")
		return nil, "", false
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return nil, "", false
	}

	email, err := h.gate.Authorize(w, r, e)
	if err != nil {
		writeAppError(w, h.logger, err, "failed to authorize")
		return nil, "", false
	}
	return e, email, true
}

func rsvpURL(baseURL, slug string) string {
	return baseURL + "/rsvp/" + slug
}

func calendarHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return "localhost"
	}
	return u.Hostname()
}
