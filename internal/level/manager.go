// Package level holds the per-room state core: which players are on which
// level, their last-known state, and each level's switch scheduler. It is a
// plain data structure; the owning room serializes all access through its
// lock.
package level

import "orbit-relay/internal/protocol"

// Player is the room-scoped record of one connected account. A player may
// exist with no level membership, e.g. between leaving one level and joining
// the next.
type Player struct {
	AccountID int32
	Data      protocol.PlayerState
	Meta      protocol.PlayerMeta
	Invisible bool
}

// Level is one gameplay area inside a room. A level exists exactly while it
// has members; the manager removes it the moment the last member leaves.
type Level struct {
	Players     []int32
	Unlisted    bool
	CustomItems map[uint16]int32
	Switch      *SwitchManager
}

// Manager maps account ids to player records and level ids to levels for a
// single room.
type Manager struct {
	players map[int32]*Player
	levels  map[int64]*Level
}

func NewManager() *Manager {
	return &Manager{
		players: make(map[int32]*Player),
		levels:  make(map[int64]*Level),
	}
}

func (m *Manager) GetPlayer(accountID int32) (*Player, bool) {
	p, ok := m.players[accountID]
	return p, ok
}

func (m *Manager) HasPlayer(accountID int32) bool {
	_, ok := m.players[accountID]
	return ok
}

// CreatePlayer inserts a fresh record for the account, discarding any prior
// state. Only called at session start.
func (m *Manager) CreatePlayer(accountID int32, invisible bool) {
	m.players[accountID] = &Player{AccountID: accountID, Invisible: invisible}
}

func (m *Manager) getOrCreatePlayer(accountID int32) *Player {
	p, ok := m.players[accountID]
	if !ok {
		p = &Player{AccountID: accountID}
		m.players[accountID] = p
	}
	return p
}

// SetPlayerData upserts the account's state blob, creating the record if it
// does not exist yet.
func (m *Manager) SetPlayerData(accountID int32, data *protocol.PlayerState) {
	m.getOrCreatePlayer(accountID).Data = *data
}

// SetPlayerMeta upserts the account's metadata blob, creating the record if
// it does not exist yet.
func (m *Manager) SetPlayerMeta(accountID int32, meta *protocol.PlayerMeta) {
	m.getOrCreatePlayer(accountID).Meta = *meta
}

// RemovePlayer drops the account's record. It does not touch level
// membership; callers leave levels first, and iteration tolerates any entry
// they miss.
func (m *Manager) RemovePlayer(accountID int32) {
	delete(m.players, accountID)
}

func (m *Manager) GetLevel(levelID int64) (*Level, bool) {
	l, ok := m.levels[levelID]
	return l, ok
}

func (m *Manager) LevelCount() int { return len(m.levels) }

func (m *Manager) TotalPlayerCount() int { return len(m.players) }

// PlayerCountOnLevel returns the member count, with ok=false when the level
// does not exist. Levels are never retained empty, so 0 cannot be returned
// with ok=true.
func (m *Manager) PlayerCountOnLevel(levelID int64) (int, bool) {
	l, ok := m.levels[levelID]
	if !ok {
		return 0, false
	}
	return len(l.Players), true
}

// SwitchManagerFor returns the level's switch scheduler.
func (m *Manager) SwitchManagerFor(levelID int64) (*SwitchManager, bool) {
	l, ok := m.levels[levelID]
	if !ok {
		return nil, false
	}
	return l.Switch, true
}

// AddToLevel joins the account to the level, creating the level on first
// join. Joining twice is a no-op for membership, but the unlisted flag always
// takes the latest caller's value.
func (m *Manager) AddToLevel(levelID int64, accountID int32, unlisted bool) {
	l, ok := m.levels[levelID]
	if !ok {
		l = &Level{
			Players: make([]int32, 0, 8),
			Switch:  newSwitchManager(),
		}
		m.levels[levelID] = l
	}

	if !contains(l.Players, accountID) {
		l.Players = append(l.Players, accountID)
	}
	l.Unlisted = unlisted
}

// RemoveFromLevel removes the account from the level's membership; once the
// membership is empty the level itself is deleted in the same call.
func (m *Manager) RemoveFromLevel(levelID int64, accountID int32) {
	l, ok := m.levels[levelID]
	if !ok {
		return
	}
	for i, id := range l.Players {
		if id == accountID {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			break
		}
	}
	if len(l.Players) == 0 {
		delete(m.levels, levelID)
	}
}

// ForEachPlayerOnLevel visits the record of every member of the level, in
// membership insertion order. Membership entries with no player record are
// skipped: a leave racing a disconnect may leave one behind briefly, and that
// is not an error.
func (m *Manager) ForEachPlayerOnLevel(levelID int64, visit func(*Player)) {
	l, ok := m.levels[levelID]
	if !ok {
		return
	}
	for _, id := range l.Players {
		if p, ok := m.players[id]; ok {
			visit(p)
		}
	}
}

func (m *Manager) ForEachPlayer(visit func(*Player)) {
	for _, p := range m.players {
		visit(p)
	}
}

func (m *Manager) ForEachLevel(visit func(int64, *Level)) {
	for id, l := range m.levels {
		visit(id, l)
	}
}

// RunCounterActions applies item counter instructions to the level's custom
// item table. Unknown levels are ignored.
func (m *Manager) RunCounterActions(levelID int64, changes []protocol.CounterChange) {
	l, ok := m.levels[levelID]
	if !ok {
		return
	}
	if l.CustomItems == nil {
		l.CustomItems = make(map[uint16]int32)
	}
	for i := range changes {
		c := &changes[i]
		cur := l.CustomItems[c.ItemID]
		switch c.Op {
		case protocol.CounterSet:
			cur = c.Value
		case protocol.CounterAdd:
			cur += c.Value
		case protocol.CounterMultiply:
			cur *= c.Value
		case protocol.CounterDivide:
			if c.Value != 0 {
				cur /= c.Value
			}
		}
		l.CustomItems[c.ItemID] = cur
	}
}

func contains(ids []int32, id int32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
