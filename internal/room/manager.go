// Package room multiplexes independent level registries, one per room, and
// scopes all access to a registry under its room's lock.
package room

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"orbit-relay/internal/level"
)

// GlobalRoomID is the room every connection starts in. It always exists.
const GlobalRoomID = 0

type Room struct {
	mu      sync.Mutex
	manager *level.Manager
}

func newRoom() *Room {
	return &Room{manager: level.NewManager()}
}

// Manager owns every room for the lifetime of the process.
type Manager struct {
	mu     sync.RWMutex
	global *Room
	rooms  map[uint32]*Room
}

func NewManager() *Manager {
	return &Manager{
		global: newRoom(),
		rooms:  make(map[uint32]*Room),
	}
}

func (m *Manager) get(roomID uint32) *Room {
	if roomID == GlobalRoomID {
		return m.global
	}
	m.mu.RLock()
	r, ok := m.rooms[roomID]
	m.mu.RUnlock()
	if !ok {
		// Unknown room ids resolve to the global room rather than failing;
		// a stale room id on a session must not strand its packets.
		return m.global
	}
	return r
}

// WithAny runs fn with exclusive access to the room's level registry,
// resolving unknown room ids to the global room. The lock is held for
// exactly the duration of fn; fn must not block on the network.
func (m *Manager) WithAny(roomID uint32, fn func(*level.Manager)) {
	r := m.get(roomID)
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.manager)
}

// CreateRoom registers an empty room. Creating an existing room is a no-op.
func (m *Manager) CreateRoom(roomID uint32) {
	if roomID == GlobalRoomID {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; !ok {
		m.rooms[roomID] = newRoom()
		log.Debug().Uint32("room_id", roomID).Msg("room created")
	}
}

// Exists reports whether the room id is registered.
func (m *Manager) Exists(roomID uint32) bool {
	if roomID == GlobalRoomID {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rooms[roomID]
	return ok
}

// RemoveIfEmpty deletes the room once it has no players left. The global
// room is never removed.
func (m *Manager) RemoveIfEmpty(roomID uint32) {
	if roomID == GlobalRoomID {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return
	}
	r.mu.Lock()
	empty := r.manager.TotalPlayerCount() == 0
	r.mu.Unlock()
	if empty {
		delete(m.rooms, roomID)
		log.Debug().Uint32("room_id", roomID).Msg("empty room removed")
	}
}

// RoomInfo is a point-in-time view of one room for the status API.
type RoomInfo struct {
	RoomID      uint32 `json:"room_id"`
	PlayerCount int    `json:"player_count"`
	LevelCount  int    `json:"level_count"`
}

// LevelInfo is a point-in-time view of one level for the status API.
type LevelInfo struct {
	LevelID     int64 `json:"level_id"`
	PlayerCount int   `json:"player_count"`
	Unlisted    bool  `json:"unlisted,omitempty"`
}

// Snapshot copies per-room counts, sorted by room id with the global room
// first.
func (m *Manager) Snapshot() []RoomInfo {
	m.mu.RLock()
	ids := make([]uint32, 0, len(m.rooms)+1)
	ids = append(ids, GlobalRoomID)
	for id := range m.rooms {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]RoomInfo, 0, len(ids))
	for _, id := range ids {
		info := RoomInfo{RoomID: id}
		m.WithAny(id, func(lm *level.Manager) {
			info.PlayerCount = lm.TotalPlayerCount()
			info.LevelCount = lm.LevelCount()
		})
		out = append(out, info)
	}
	return out
}

// LevelsSnapshot copies the room's level list, skipping unlisted levels
// unless includeUnlisted is set.
func (m *Manager) LevelsSnapshot(roomID uint32, includeUnlisted bool) []LevelInfo {
	var out []LevelInfo
	m.WithAny(roomID, func(lm *level.Manager) {
		lm.ForEachLevel(func(id int64, l *level.Level) {
			if l.Unlisted && !includeUnlisted {
				return
			}
			out = append(out, LevelInfo{LevelID: id, PlayerCount: len(l.Players), Unlisted: l.Unlisted})
		})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LevelID < out[j].LevelID })
	return out
}
