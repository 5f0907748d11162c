package protocol

type LoggedIn struct {
	Moderator bool
}

func (*LoggedIn) Tag() Tag { return TagLoggedIn }

func (*LoggedIn) EncodedSize() int { return 1 }

func (p *LoggedIn) EncodeTo(buf *Buffer) { buf.WriteBool(p.Moderator) }

type LoginFailed struct {
	Reason string
}

func (*LoginFailed) Tag() Tag { return TagLoginFailed }

func (p *LoginFailed) EncodedSize() int { return 2 + len(p.Reason) }

func (p *LoginFailed) EncodeTo(buf *Buffer) { buf.WriteString(p.Reason) }

// AssociatedPlayerState pairs an account id with its state blob, the unit the
// broadcast path serializes per recipient.
type AssociatedPlayerState struct {
	AccountID int32
	State     PlayerState
}

const AssociatedPlayerStateSize = 4 + PlayerStateSize

// LevelData carries the states of every other player on the sender's level,
// plus the level's custom item overrides. The hot broadcast path writes this
// layout directly into a pre-sized Buffer; this struct exists for the
// zero-player variant and for decoding.
type LevelData struct {
	Players     []AssociatedPlayerState
	CustomItems map[uint16]int32
}

func (*LevelData) Tag() Tag { return TagLevelData }

func (p *LevelData) EncodedSize() int {
	return 4 + len(p.Players)*AssociatedPlayerStateSize + CustomItemsSize(p.CustomItems)
}

func (p *LevelData) EncodeTo(buf *Buffer) {
	buf.WriteU32(uint32(len(p.Players)))
	for i := range p.Players {
		buf.WriteI32(p.Players[i].AccountID)
		p.Players[i].State.EncodeTo(buf)
	}
	WriteCustomItems(buf, p.CustomItems)
}

// CustomItemsSize returns the encoded size of a custom item table, including
// the presence flag.
func CustomItemsSize(items map[uint16]int32) int {
	if len(items) == 0 {
		return 1
	}
	return 1 + 2 + len(items)*(2+4)
}

// WriteCustomItems writes a presence flag and, when non-empty, the item table.
func WriteCustomItems(buf *Buffer, items map[uint16]int32) {
	if len(items) == 0 {
		buf.WriteBool(false)
		return
	}
	buf.WriteBool(true)
	buf.WriteU16(uint16(len(items)))
	for id, value := range items {
		buf.WriteU16(id)
		buf.WriteI32(value)
	}
}

type AssociatedPlayerMeta struct {
	AccountID int32
	Meta      PlayerMeta
}

type LevelPlayerMetadata struct {
	Players []AssociatedPlayerMeta
}

func (*LevelPlayerMetadata) Tag() Tag { return TagLevelPlayerMetadata }

func (p *LevelPlayerMetadata) EncodedSize() int {
	return 4 + len(p.Players)*(4+PlayerMetaSize)
}

func (p *LevelPlayerMetadata) EncodeTo(buf *Buffer) {
	buf.WriteU32(uint32(len(p.Players)))
	for i := range p.Players {
		buf.WriteI32(p.Players[i].AccountID)
		p.Players[i].Meta.EncodeTo(buf)
	}
}

type PlayerProfiles struct {
	Players []PlayerProfile
}

func (*PlayerProfiles) Tag() Tag { return TagPlayerProfiles }

func (p *PlayerProfiles) EncodedSize() int {
	size := 4
	for i := range p.Players {
		size += p.Players[i].EncodedSize()
	}
	return size
}

func (p *PlayerProfiles) EncodeTo(buf *Buffer) {
	buf.WriteU32(uint32(len(p.Players)))
	for i := range p.Players {
		p.Players[i].EncodeTo(buf)
	}
}

type VoiceBroadcast struct {
	PlayerID int32
	Data     []byte
}

func (*VoiceBroadcast) Tag() Tag { return TagVoiceBroadcast }

func (p *VoiceBroadcast) EncodedSize() int { return 4 + 4 + len(p.Data) }

func (p *VoiceBroadcast) EncodeTo(buf *Buffer) {
	buf.WriteI32(p.PlayerID)
	buf.WriteBlob(p.Data)
}

type ChatMessageBroadcast struct {
	PlayerID int32
	Message  string
}

func (*ChatMessageBroadcast) Tag() Tag { return TagChatMessageBroadcast }

func (p *ChatMessageBroadcast) EncodedSize() int { return 4 + 2 + len(p.Message) }

func (p *ChatMessageBroadcast) EncodeTo(buf *Buffer) {
	buf.WriteI32(p.PlayerID)
	buf.WriteString(p.Message)
}

type SwitchInfo struct {
	PlayerID  int32
	Timestamp float32
}

func (*SwitchInfo) Tag() Tag { return TagSwitchInfo }

func (p *SwitchInfo) EncodedSize() int { return 4 + 4 }

func (p *SwitchInfo) EncodeTo(buf *Buffer) {
	buf.WriteI32(p.PlayerID)
	buf.WriteF32(p.Timestamp)
}

// DecodeServer parses a server-to-client frame. Used by the bot client and
// by tests; the server itself only encodes these.
func DecodeServer(frame []byte) (Packet, error) {
	r := NewReader(frame)
	tag := Tag(r.ReadU16())
	if r.Err() != nil {
		return nil, r.Err()
	}

	var pkt Packet
	switch tag {
	case TagLoggedIn:
		pkt = &LoggedIn{Moderator: r.ReadBool()}
	case TagLoginFailed:
		pkt = &LoginFailed{Reason: r.ReadString()}
	case TagLevelData:
		p := &LevelData{}
		n := int(r.ReadU32())
		if r.Err() == nil && n*AssociatedPlayerStateSize > r.Remaining() {
			return nil, ErrTruncatedPacket
		}
		for i := 0; i < n; i++ {
			var aps AssociatedPlayerState
			aps.AccountID = r.ReadI32()
			aps.State.DecodeFrom(r)
			p.Players = append(p.Players, aps)
		}
		if r.ReadBool() {
			items := int(r.ReadU16())
			p.CustomItems = make(map[uint16]int32, items)
			for i := 0; i < items; i++ {
				id := r.ReadU16()
				p.CustomItems[id] = r.ReadI32()
			}
		}
		pkt = p
	case TagLevelPlayerMetadata:
		p := &LevelPlayerMetadata{}
		n := int(r.ReadU32())
		if r.Err() == nil && n*(4+PlayerMetaSize) > r.Remaining() {
			return nil, ErrTruncatedPacket
		}
		for i := 0; i < n; i++ {
			var apm AssociatedPlayerMeta
			apm.AccountID = r.ReadI32()
			apm.Meta.DecodeFrom(r)
			p.Players = append(p.Players, apm)
		}
		pkt = p
	case TagPlayerProfiles:
		p := &PlayerProfiles{}
		n := int(r.ReadU32())
		for i := 0; i < n && r.Err() == nil; i++ {
			var prof PlayerProfile
			prof.DecodeFrom(r)
			p.Players = append(p.Players, prof)
		}
		pkt = p
	case TagVoiceBroadcast:
		p := &VoiceBroadcast{}
		p.PlayerID = r.ReadI32()
		p.Data = r.ReadBlob()
		pkt = p
	case TagChatMessageBroadcast:
		p := &ChatMessageBroadcast{}
		p.PlayerID = r.ReadI32()
		p.Message = r.ReadString()
		pkt = p
	case TagSwitchInfo:
		p := &SwitchInfo{}
		p.PlayerID = r.ReadI32()
		p.Timestamp = r.ReadF32()
		pkt = p
	default:
		return nil, ErrUnknownTag
	}

	if r.Err() != nil {
		return nil, r.Err()
	}
	return pkt, nil
}
