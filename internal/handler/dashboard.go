package handler

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/auth"
	"github.com/dukerupert/rsvp/internal/event"
	"github.com/dukerupert/rsvp/internal/model"
	"github.com/dukerupert/rsvp/internal/qrcode"
	"github.com/dukerupert/rsvp/internal/store"
	"github.com/dukerupert/rsvp/internal/websocket"
)

const csvTimeLayout = "2006-01-02 15:04"

type DashboardHandler struct {
	eventStore     *store.EventStore
	rsvpStore      *store.RSVPStore
	gate           *auth.Gate
	hub            *websocket.Hub
	qrClient       *qrcode.Client
	baseURL        string
	allowedOrigins []string
	logger         *slog.Logger
}

func NewDashboardHandler(
	es *store.EventStore,
	rs *store.RSVPStore,
	gate *auth.Gate,
	hub *websocket.Hub,
	qr *qrcode.Client,
	baseURL string,
	allowedOrigins []string,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		eventStore:     es,
		rsvpStore:      rs,
		gate:           gate,
		hub:            hub,
		qrClient:       qr,
		baseURL:        baseURL,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

type dashboardResponse struct {
	Event   *model.Event    `json:"event"`
	RSVPs   []model.RSVP    `json:"rsvps"`
	Stats   model.RSVPStats `json:"stats"`
	RSVPURL string          `json:"rsvp_url"`
}

// Show is the owner's view of one event, soft-deleted or not. Visitors
// without a session are sent to the email verification page.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	e, ok := h.authorize(w, r)
	if !ok {
		return
	}

	rsvps, ok := h.listRSVPs(w, r, e)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Event:   e,
		RSVPs:   rsvps,
		Stats:   event.Summarize(rsvps),
		RSVPURL: rsvpURL(h.baseURL, e.Slug),
	})
}

func (h *DashboardHandler) RSVPs(w http.ResponseWriter, r *http.Request) {
	e, ok := h.authorize(w, r)
	if !ok {
		return
	}
	rsvps, ok := h.listRSVPs(w, r, e)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rsvps)
}

// ExportCSV writes the guest list as a spreadsheet download.
func (h *DashboardHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	e, ok := h.authorize(w, r)
	if !ok {
		return
	}
	rsvps, ok := h.listRSVPs(w, r, e)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+e.Slug+`-rsvps.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"Name", "Status", "Guests", "Contact", "Message", "Submitted At"})
	for _, rsvp := range rsvps {
		cw.Write([]string{
			csvCell(rsvp.GuestName),
			rsvp.AttendanceStatus,
			strconv.Itoa(rsvp.NumberOfGuests),
			csvCell(contact(rsvp)),
			csvCell(deref(rsvp.Message)),
			rsvp.CreatedAt.Format(csvTimeLayout),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Warn("write csv", "slug", e.Slug, "error", err)
	}
}

func (h *DashboardHandler) DeleteRSVP(w http.ResponseWriter, r *http.Request) {
	e, ok := h.authorize(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	found, err := h.rsvpStore.Delete(r.Context(), id, e.ID)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("delete rsvp", err), "failed to delete RSVP")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "RSVP not found")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage(websocket.EntityRSVP, websocket.ActionDelete, e.ID, id, nil))
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// QRCode serves a PNG that points at the event's public RSVP page.
func (h *DashboardHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	e, ok := h.authorize(w, r)
	if !ok {
		return
	}

	size := qrcode.ParseSize(r.URL.Query().Get("size"))
	png, err := h.qrClient.PNG(r.Context(), rsvpURL(h.baseURL, e.Slug), size)
	if err != nil {
		h.logger.Error("generate qr code", "slug", e.Slug, "error", err)
		writeError(w, http.StatusBadGateway, "failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+e.Slug+`-qr.png"`)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(png)
}

// Feed streams the event's RSVP and event changes over a websocket.
func (h *DashboardHandler) Feed(w http.ResponseWriter, r *http.Request) {
	e, ok := h.authorize(w, r)
	if !ok {
		return
	}
	websocket.Serve(h.hub, e.ID, h.allowedOrigins, h.logger).ServeHTTP(w, r)
}

type hostEventsResponse struct {
	Email  string        `json:"email"`
	Events []model.Event `json:"events"`
}

// HostEvents lists the logged-in host's active events.
func (h *DashboardHandler) HostEvents(w http.ResponseWriter, r *http.Request) {
	email := auth.HostEmail(r.Context())
	events, err := h.eventStore.ListActiveByHost(r.Context(), email)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("list host events", err), "failed to list events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, hostEventsResponse{Email: email, Events: events})
}

// authorize loads the event named by the slug path value and runs the
// access gate. The page itself redirects to verification; its sub-resources
// answer 403.
func (h *DashboardHandler) authorize(w http.ResponseWriter, r *http.Request) (*model.Event, bool) {
	slug := r.PathValue("slug")
	e, err := h.eventStore.GetBySlug(r.Context(), slug)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("get event", err), "failed to get event")
		return nil, false
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return nil, false
	}

	if _, err := h.gate.Authorize(w, r, e); err != nil {
		if errors.Is(err, apperr.ErrAccessDenied) && r.Method == http.MethodGet && r.URL.Path == "/dashboard/"+slug {
			http.Redirect(w, r, "/verify?slug="+url.QueryEscape(slug), http.StatusSeeOther)
			return nil, false
		}
		writeAppError(w, h.logger, err, "failed to authorize")
		return nil, false
	}
	return e, true
}

func (h *DashboardHandler) listRSVPs(w http.ResponseWriter, r *http.Request, e *model.Event) ([]model.RSVP, bool) {
	rsvps, err := h.rsvpStore.ListByEvent(r.Context(), e.ID)
	if err != nil {
		writeAppError(w, h.logger, apperr.Persistence("list rsvps", err), "failed to list RSVPs")
		return nil, false
	}
	if rsvps == nil {
		rsvps = []model.RSVP{}
	}
	return rsvps, true
}

func contact(r model.RSVP) string {
	if r.GuestEmail != nil && *r.GuestEmail != "" {
		return *r.GuestEmail
	}
	return deref(r.GuestPhone)
}

// csvCell keeps guest-typed text from being read as a spreadsheet formula.
func csvCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
