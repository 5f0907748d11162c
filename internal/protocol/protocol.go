// Package protocol defines the relay wire packets and their fixed-layout
// binary encoding. Frames are length-delimited by the transport, so a packet
// is a 2-byte tag followed by its fields in little-endian order.
package protocol

import "errors"

type Tag uint16

// Client-to-server packets.
const (
	_ Tag = iota
	TagLogin
	TagLevelJoin
	TagLevelLeave
	TagPlayerData
	TagRequestPlayerProfiles
	TagVoice
	TagChatMessage
	TagSwitchQuery
	TagSwitchDeath

	tagClientMax
)

// Server-to-client packets.
const (
	_ Tag = iota + tagClientMax
	TagLoggedIn
	TagLoginFailed
	TagLevelData
	TagLevelPlayerMetadata
	TagPlayerProfiles
	TagVoiceBroadcast
	TagChatMessageBroadcast
	TagSwitchInfo
)

const TagSize = 2

// MaxVoicePayload bounds voice frames at decode time, before any handler runs.
const MaxVoicePayload = 4096

var (
	ErrTruncatedPacket = errors.New("truncated packet")
	ErrUnknownTag      = errors.New("unknown packet tag")
	ErrVoiceTooLarge   = errors.New("voice payload too large")
)

// Packet is any decoded inbound packet.
type Packet interface {
	Tag() Tag
}

// Encodable is an outbound packet that can size itself ahead of encoding,
// so send buffers are allocated once and never grown.
type Encodable interface {
	Tag() Tag
	EncodedSize() int
	EncodeTo(buf *Buffer)
}

// Encode serializes an outbound packet into a single exactly-sized frame.
func Encode(pkt Encodable) ([]byte, error) {
	buf := NewBuffer(TagSize + pkt.EncodedSize())
	buf.WriteU16(uint16(pkt.Tag()))
	pkt.EncodeTo(buf)
	if err := buf.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
