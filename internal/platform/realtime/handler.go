package realtime

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"

	"peoplehub/internal/domain/auth"
)

type Counter interface {
	Inc(name string)
}

// Handler authenticates a SockJS session with the access token passed as
// ?token= and streams the user's events until the session closes.
func Handler(prefix, secret string, hub *Hub, counter Counter) http.Handler {
	return sockjs.NewHandler(prefix, sockjs.DefaultOptions, func(session sockjs.Session) {
		token := tokenFromRequest(session.Request())
		if token == "" {
			_ = session.Close(4001, "missing token")
			return
		}
		claims, err := auth.ParseToken(secret, token)
		if err != nil {
			_ = session.Close(4002, "invalid token")
			return
		}

		client := &Client{
			ID:       uuid.NewString(),
			TenantID: claims.TenantID,
			UserID:   claims.UserID,
			Send:     make(chan []byte, 16),
		}
		hub.Register(client)
		defer hub.Unregister(client)
		if counter != nil {
			counter.Inc("realtime_connections")
		}

		go func() {
			for msg := range client.Send {
				_ = session.Send(string(msg))
			}
		}()

		// Inbound frames are ignored; Recv only detects disconnect.
		for {
			if _, err := session.Recv(); err != nil {
				return
			}
		}
	})
}

func tokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := r.Header.Get("Authorization")
	if parts := strings.Fields(header); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
