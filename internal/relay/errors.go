package relay

import "errors"

var (
	// ErrNotAuthenticated short-circuits every handler before login.
	ErrNotAuthenticated = errors.New("not_authenticated")
	// ErrUnexpectedPlayerData is returned for level-scoped packets arriving
	// while the sender is not on any level. The connection stays up.
	ErrUnexpectedPlayerData = errors.New("unexpected_player_data")
	ErrAlreadyAuthenticated = errors.New("already_authenticated")
	ErrUnhandledPacket      = errors.New("unhandled_packet")
)
