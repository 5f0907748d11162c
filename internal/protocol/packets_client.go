package protocol

// Login must be the first packet on a connection.
type Login struct {
	AccountID int32
	Token     string
	Invisible bool
}

func (*Login) Tag() Tag { return TagLogin }

type LevelJoin struct {
	LevelID  int64
	Unlisted bool
}

func (*LevelJoin) Tag() Tag { return TagLevelJoin }

type LevelLeave struct{}

func (*LevelLeave) Tag() Tag { return TagLevelLeave }

type PlayerData struct {
	Data           PlayerState
	CounterChanges []CounterChange
	Meta           *PlayerMeta
}

func (*PlayerData) Tag() Tag { return TagPlayerData }

// RequestPlayerProfiles asks for one account's profile, or every profile on
// the requester's level when Requested is 0.
type RequestPlayerProfiles struct {
	Requested int32
}

func (*RequestPlayerProfiles) Tag() Tag { return TagRequestPlayerProfiles }

type Voice struct {
	Data []byte
}

func (*Voice) Tag() Tag { return TagVoice }

type ChatMessage struct {
	Message string
}

func (*ChatMessage) Tag() Tag { return TagChatMessage }

type SwitchQuery struct {
	Timestamp float32
}

func (*SwitchQuery) Tag() Tag { return TagSwitchQuery }

type SwitchDeath struct {
	Timestamp float32
}

func (*SwitchDeath) Tag() Tag { return TagSwitchDeath }

func (p *Login) EncodedSize() int { return 4 + 2 + len(p.Token) + 1 }

func (p *Login) EncodeTo(buf *Buffer) {
	buf.WriteI32(p.AccountID)
	buf.WriteString(p.Token)
	buf.WriteBool(p.Invisible)
}

func (p *LevelJoin) EncodedSize() int { return 8 + 1 }

func (p *LevelJoin) EncodeTo(buf *Buffer) {
	buf.WriteI64(p.LevelID)
	buf.WriteBool(p.Unlisted)
}

func (*LevelLeave) EncodedSize() int { return 0 }

func (*LevelLeave) EncodeTo(*Buffer) {}

func (p *PlayerData) EncodedSize() int {
	size := PlayerStateSize + 2 + len(p.CounterChanges)*counterChangeSize + 1
	if p.Meta != nil {
		size += PlayerMetaSize
	}
	return size
}

func (p *PlayerData) EncodeTo(buf *Buffer) {
	p.Data.EncodeTo(buf)
	buf.WriteU16(uint16(len(p.CounterChanges)))
	for i := range p.CounterChanges {
		p.CounterChanges[i].EncodeTo(buf)
	}
	buf.WriteBool(p.Meta != nil)
	if p.Meta != nil {
		p.Meta.EncodeTo(buf)
	}
}

func (p *RequestPlayerProfiles) EncodedSize() int { return 4 }

func (p *RequestPlayerProfiles) EncodeTo(buf *Buffer) { buf.WriteI32(p.Requested) }

func (p *Voice) EncodedSize() int { return 4 + len(p.Data) }

func (p *Voice) EncodeTo(buf *Buffer) { buf.WriteBlob(p.Data) }

func (p *ChatMessage) EncodedSize() int { return 2 + len(p.Message) }

func (p *ChatMessage) EncodeTo(buf *Buffer) { buf.WriteString(p.Message) }

func (p *SwitchQuery) EncodedSize() int { return 4 }

func (p *SwitchQuery) EncodeTo(buf *Buffer) { buf.WriteF32(p.Timestamp) }

func (p *SwitchDeath) EncodedSize() int { return 4 }

func (p *SwitchDeath) EncodeTo(buf *Buffer) { buf.WriteF32(p.Timestamp) }

// DecodeClient parses one inbound frame into its typed packet. The voice
// payload cap is enforced here, before any handler sees the packet.
func DecodeClient(frame []byte) (Packet, error) {
	r := NewReader(frame)
	tag := Tag(r.ReadU16())
	if r.Err() != nil {
		return nil, r.Err()
	}

	var pkt Packet
	switch tag {
	case TagLogin:
		p := &Login{}
		p.AccountID = r.ReadI32()
		p.Token = r.ReadString()
		p.Invisible = r.ReadBool()
		pkt = p
	case TagLevelJoin:
		p := &LevelJoin{}
		p.LevelID = r.ReadI64()
		p.Unlisted = r.ReadBool()
		pkt = p
	case TagLevelLeave:
		pkt = &LevelLeave{}
	case TagPlayerData:
		p := &PlayerData{}
		p.Data.DecodeFrom(r)
		n := int(r.ReadU16())
		if n > 0 && r.Err() == nil {
			if n*counterChangeSize > r.Remaining() {
				return nil, ErrTruncatedPacket
			}
			p.CounterChanges = make([]CounterChange, n)
			for i := range p.CounterChanges {
				p.CounterChanges[i].DecodeFrom(r)
			}
		}
		if r.ReadBool() {
			p.Meta = &PlayerMeta{}
			p.Meta.DecodeFrom(r)
		}
		pkt = p
	case TagRequestPlayerProfiles:
		pkt = &RequestPlayerProfiles{Requested: r.ReadI32()}
	case TagVoice:
		data := r.ReadBlob()
		if len(data) > MaxVoicePayload {
			return nil, ErrVoiceTooLarge
		}
		pkt = &Voice{Data: data}
	case TagChatMessage:
		pkt = &ChatMessage{Message: r.ReadString()}
	case TagSwitchQuery:
		pkt = &SwitchQuery{Timestamp: r.ReadF32()}
	case TagSwitchDeath:
		pkt = &SwitchDeath{Timestamp: r.ReadF32()}
	default:
		return nil, ErrUnknownTag
	}

	if r.Err() != nil {
		return nil, r.Err()
	}
	return pkt, nil
}
