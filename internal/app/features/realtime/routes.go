// internal/app/features/realtime/routes.go
package realtime

import (
	"github.com/go-chi/chi/v5"
)

// Routes exposes the websocket endpoint. Authentication happens in the
// upgrade handshake itself, not through the middleware chain.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeWS)
	return r
}
