package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleWebSocket upgrades the request and keeps the page attached to the
// hub until it disconnects. Pages are served from the same device or LAN,
// so the origin is not checked.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			logger.Warn("websocket accept", "remote", r.RemoteAddr, "error", err)
			return
		}

		NewClient(hub, conn).Serve(r.Context())
		logger.Debug("page disconnected", "remote", r.RemoteAddr, "pages", hub.ClientCount())
	}
}
