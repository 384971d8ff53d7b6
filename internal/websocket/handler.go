package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// Serve upgrades the request and streams eventID's changes until the
// connection closes. Callers authorize the request first.
func Serve(hub *Hub, eventID int64, allowedOrigins []string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: allowedOrigins,
		})
		if err != nil {
			logger.Warn("websocket accept", "event_id", eventID, "error", err)
			return
		}
		defer conn.CloseNow()

		client := NewClient(hub, conn, eventID)
		client.Run(r.Context())
	}
}
