// Package relay is the packet orchestrator: it maps every inbound packet to
// a handler that mutates the sender's room registry under its lock and fans
// resulting packets back out. Handlers never hold a room lock across a send.
package relay

import (
	"github.com/rs/zerolog/log"

	"orbit-relay/internal/level"
	"orbit-relay/internal/profile"
	"orbit-relay/internal/protocol"
	"orbit-relay/internal/room"
)

// Authenticator resolves a login attempt to an account.
type Authenticator interface {
	Authenticate(accountID int32, token string) (profile.Account, error)
}

// ProfileDirectory is the live lookup of public profiles, fed at login and
// drained at disconnect.
type ProfileDirectory interface {
	Put(account profile.Account, invisible bool)
	Remove(accountID int32)
	Lookup(accountID int32, moderator bool) (protocol.PlayerProfile, bool)
}

// Broadcaster fans a packet out to every connection on a (level, room),
// best-effort per recipient.
type Broadcaster interface {
	BroadcastVoice(pkt *protocol.VoiceBroadcast, levelID int64, roomID uint32)
	BroadcastChat(pkt *protocol.ChatMessageBroadcast, levelID int64, roomID uint32)
}

// HandlerFunc processes one decoded packet for one session.
type HandlerFunc func(s *Session, pkt protocol.Packet) error

// Orchestrator owns the dispatch table and the collaborators handlers need.
type Orchestrator struct {
	rooms     *room.Manager
	auth      Authenticator
	profiles  ProfileDirectory
	broadcast Broadcaster
	handlers  map[protocol.Tag]HandlerFunc
}

func NewOrchestrator(rooms *room.Manager, auth Authenticator, profiles ProfileDirectory, broadcast Broadcaster) *Orchestrator {
	o := &Orchestrator{
		rooms:     rooms,
		auth:      auth,
		profiles:  profiles,
		broadcast: broadcast,
	}
	o.handlers = map[protocol.Tag]HandlerFunc{
		protocol.TagLogin:                 o.handleLogin,
		protocol.TagLevelJoin:             o.handleLevelJoin,
		protocol.TagLevelLeave:            o.handleLevelLeave,
		protocol.TagPlayerData:            o.handlePlayerData,
		protocol.TagRequestPlayerProfiles: o.handleRequestProfiles,
		protocol.TagVoice:                 o.handleVoice,
		protocol.TagChatMessage:           o.handleChatMessage,
		protocol.TagSwitchQuery:           o.handleSwitchQuery,
		protocol.TagSwitchDeath:           o.handleSwitchDeath,
	}
	return o
}

// Handle dispatches one decoded packet. Everything except Login requires an
// authenticated session.
func (o *Orchestrator) Handle(s *Session, pkt protocol.Packet) error {
	h, ok := o.handlers[pkt.Tag()]
	if !ok {
		return ErrUnhandledPacket
	}
	if pkt.Tag() != protocol.TagLogin && !s.Authenticated {
		return ErrNotAuthenticated
	}
	return h(s, pkt)
}

// Disconnect runs the best-effort cleanup for a closed connection: leave the
// current level, drop the player record, drop the cached profile. Stale
// membership left by a crashed sequence self-heals through tolerant
// iteration.
func (o *Orchestrator) Disconnect(s *Session) {
	if !s.Authenticated {
		return
	}
	levelID := s.LevelID
	s.LevelID = 0
	o.rooms.WithAny(s.RoomID, func(lm *level.Manager) {
		if levelID != 0 {
			lm.RemoveFromLevel(levelID, s.AccountID)
		}
		lm.RemovePlayer(s.AccountID)
	})
	o.profiles.Remove(s.AccountID)
	o.rooms.RemoveIfEmpty(s.RoomID)
	log.Debug().Int32("account_id", s.AccountID).Uint32("room_id", s.RoomID).Msg("session cleaned up")
}
