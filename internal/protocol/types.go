package protocol

// PlayerState is the per-tick gameplay state blob relayed between players on
// a level. The layout is fixed, which is what lets the broadcast path size
// its output buffer from a count alone.
type PlayerState struct {
	Timestamp float32
	PosX      float32
	PosY      float32
	Rotation  float32
	Flags     uint16
}

// PlayerStateSize is the encoded size of a PlayerState.
const PlayerStateSize = 4*4 + 2

func (s *PlayerState) EncodeTo(buf *Buffer) {
	buf.WriteF32(s.Timestamp)
	buf.WriteF32(s.PosX)
	buf.WriteF32(s.PosY)
	buf.WriteF32(s.Rotation)
	buf.WriteU16(s.Flags)
}

func (s *PlayerState) DecodeFrom(r *Reader) {
	s.Timestamp = r.ReadF32()
	s.PosX = r.ReadF32()
	s.PosY = r.ReadF32()
	s.Rotation = r.ReadF32()
	s.Flags = r.ReadU16()
}

// PlayerMeta is the slow-changing per-player metadata blob, sent alongside
// state only when it changes.
type PlayerMeta struct {
	LocalBest uint32
	Attempts  uint32
}

const PlayerMetaSize = 4 + 4

func (m *PlayerMeta) EncodeTo(buf *Buffer) {
	buf.WriteU32(m.LocalBest)
	buf.WriteU32(m.Attempts)
}

func (m *PlayerMeta) DecodeFrom(r *Reader) {
	m.LocalBest = r.ReadU32()
	m.Attempts = r.ReadU32()
}

type CounterOp uint8

const (
	CounterSet CounterOp = iota
	CounterAdd
	CounterMultiply
	CounterDivide
)

// CounterChange is one item-counter instruction carried by a PlayerData
// packet and applied to the level's custom item table.
type CounterChange struct {
	ItemID uint16
	Op     CounterOp
	Value  int32
}

const counterChangeSize = 2 + 1 + 4

func (c *CounterChange) EncodeTo(buf *Buffer) {
	buf.WriteU16(c.ItemID)
	buf.WriteU8(uint8(c.Op))
	buf.WriteI32(c.Value)
}

func (c *CounterChange) DecodeFrom(r *Reader) {
	c.ItemID = r.ReadU16()
	c.Op = CounterOp(r.ReadU8())
	c.Value = r.ReadI32()
}

// PlayerProfile is the public account view returned by profile requests.
type PlayerProfile struct {
	AccountID int32
	Name      string
	Cube      uint16
	Color1    uint8
	Color2    uint8
	Moderator bool
}

func (p *PlayerProfile) EncodedSize() int {
	return 4 + 2 + len(p.Name) + 2 + 1 + 1 + 1
}

func (p *PlayerProfile) EncodeTo(buf *Buffer) {
	buf.WriteI32(p.AccountID)
	buf.WriteString(p.Name)
	buf.WriteU16(p.Cube)
	buf.WriteU8(p.Color1)
	buf.WriteU8(p.Color2)
	buf.WriteBool(p.Moderator)
}

func (p *PlayerProfile) DecodeFrom(r *Reader) {
	p.AccountID = r.ReadI32()
	p.Name = r.ReadString()
	p.Cube = r.ReadU16()
	p.Color1 = r.ReadU8()
	p.Color2 = r.ReadU8()
	p.Moderator = r.ReadBool()
}
