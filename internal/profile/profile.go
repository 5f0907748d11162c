// Package profile holds public account views and the in-memory directory the
// relay consults when players request each other's profiles.
package profile

import "orbit-relay/internal/protocol"

type Role uint8

const (
	RoleUser Role = iota
	RoleModerator
	RoleAdmin
)

func (r Role) Moderator() bool { return r >= RoleModerator }

// Account is the authenticated identity of one player.
type Account struct {
	ID     int32
	Name   string
	Cube   uint16
	Color1 uint8
	Color2 uint8
	Role   Role
}

// View renders the account as its public profile.
func (a Account) View() protocol.PlayerProfile {
	return protocol.PlayerProfile{
		AccountID: a.ID,
		Name:      a.Name,
		Cube:      a.Cube,
		Color1:    a.Color1,
		Color2:    a.Color2,
		Moderator: a.Role.Moderator(),
	}
}
