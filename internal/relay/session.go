package relay

import "orbit-relay/internal/protocol"

// Sender delivers packets back to one connection. Sends may drop when the
// peer's queue is full; they never block a handler.
type Sender interface {
	Send(pkt protocol.Encodable) error
	SendFrame(frame []byte) error
}

// Session is the transient per-connection state. It is written only by the
// connection's own task; handlers read it directly and pass copies of its
// fields into room-lock scopes, so none of it needs the room lock.
type Session struct {
	Sender

	ID        string
	AccountID int32

	Authenticated bool
	Moderator     bool
	Invisible     bool

	RoomID   uint32
	LevelID  int64
	Unlisted bool
}

// OnLevel reports whether the session currently occupies a level. Level id 0
// is the "no level" sentinel.
func (s *Session) OnLevel() bool { return s.LevelID != 0 }
