package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"orbit-relay/internal/room"
	"orbit-relay/internal/store"
	"orbit-relay/internal/ws"
)

type statusHandlers struct {
	rooms    *room.Manager
	gateway  *ws.Gateway
	store    *store.Store
	adminKey string
}

type healthResponse struct {
	OK          bool   `json:"ok"`
	Connections int    `json:"connections"`
	Database    string `json:"database,omitempty"`
}

func (h *statusHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{OK: true, Connections: h.gateway.ClientCount()}
		if h.store != nil {
			if err := h.store.Ping(r.Context()); err != nil {
				resp.Database = "unreachable"
			} else {
				resp.Database = "ok"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *statusHandlers) Rooms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"rooms": h.rooms.Snapshot()})
	}
}

func (h *statusHandlers) Levels() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := strconv.ParseUint(chi.URLParam(r, "room_id"), 10, 32)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if uint32(roomID) != room.GlobalRoomID && !h.rooms.Exists(uint32(roomID)) {
			WriteHTTPError(w, http.StatusNotFound, "room_not_found")
			return
		}

		// Unlisted levels are hidden from the public listing; ?all=1 shows
		// them when the caller presents the admin key.
		includeUnlisted := false
		if r.URL.Query().Get("all") == "1" {
			if !CheckAdminAuth(r, h.adminKey) {
				WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			includeUnlisted = true
		}

		levels := h.rooms.LevelsSnapshot(uint32(roomID), includeUnlisted)
		if levels == nil {
			levels = []room.LevelInfo{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"room_id": uint32(roomID), "levels": levels})
	}
}
