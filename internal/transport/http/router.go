// Package httptransport exposes the relay's HTTP surface: the websocket
// endpoint and a small read-only status API over the room container.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"orbit-relay/internal/config"
	"orbit-relay/internal/room"
	"orbit-relay/internal/store"
	"orbit-relay/internal/ws"
)

func NewRouter(rooms *room.Manager, gw *ws.Gateway, st *store.Store, cfg config.ServerConfig) *chi.Mux {
	h := &statusHandlers{rooms: rooms, gateway: gw, store: st, adminKey: cfg.AdminAPIKey}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", h.Health())

	// The websocket upgrade is deliberately outside the request logger; the
	// connection outlives the request by hours.
	r.Get("/ws", gw.HandleWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/public/rooms", h.Rooms())
		r.Get("/public/rooms/{room_id}/levels", h.Levels())
	})

	return r
}

func LogRoutes(r chi.Router) {
	_ = chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		log.Debug().Str("method", method).Str("route", route).Msg("route registered")
		return nil
	})
}
