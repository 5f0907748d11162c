package protocol

import (
	"errors"
	"testing"
)

func TestBufferNeverGrows(t *testing.T) {
	buf := NewBuffer(4)
	buf.WriteU32(7)
	if buf.Err() != nil {
		t.Fatalf("write within capacity: %v", buf.Err())
	}
	buf.WriteU8(1)
	if !errors.Is(buf.Err(), ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull, got %v", buf.Err())
	}
	if len(buf.Bytes()) != 4 {
		t.Fatalf("buffer grew to %d bytes", len(buf.Bytes()))
	}
}

func TestDecodeClientPlayerData(t *testing.T) {
	in := &PlayerData{
		Data:           PlayerState{Timestamp: 12.5, PosX: 100, PosY: -3, Flags: 0x0101},
		CounterChanges: []CounterChange{{ItemID: 4, Op: CounterAdd, Value: -2}},
		Meta:           &PlayerMeta{LocalBest: 97, Attempts: 1204},
	}
	frame, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	pkt, err := DecodeClient(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, ok := pkt.(*PlayerData)
	if !ok {
		t.Fatalf("decoded %T, want *PlayerData", pkt)
	}
	if out.Data != in.Data {
		t.Fatalf("state = %+v, want %+v", out.Data, in.Data)
	}
	if len(out.CounterChanges) != 1 || out.CounterChanges[0] != in.CounterChanges[0] {
		t.Fatalf("counter changes = %+v", out.CounterChanges)
	}
	if out.Meta == nil || *out.Meta != *in.Meta {
		t.Fatalf("meta = %+v, want %+v", out.Meta, in.Meta)
	}
}

func TestDecodeClientVoiceCap(t *testing.T) {
	frame, err := Encode(&Voice{Data: make([]byte, MaxVoicePayload)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeClient(frame); err != nil {
		t.Fatalf("payload at the cap should decode: %v", err)
	}

	frame, err = Encode(&Voice{Data: make([]byte, MaxVoicePayload+1)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeClient(frame); !errors.Is(err, ErrVoiceTooLarge) {
		t.Fatalf("expected ErrVoiceTooLarge, got %v", err)
	}
}

func TestDecodeClientUnknownTag(t *testing.T) {
	if _, err := DecodeClient([]byte{0xff, 0xff}); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}

func TestDecodeClientTruncated(t *testing.T) {
	frame, err := Encode(&LevelJoin{LevelID: 91, Unlisted: true})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeClient(frame[:len(frame)-1]); !errors.Is(err, ErrTruncatedPacket) {
		t.Fatalf("expected ErrTruncatedPacket, got %v", err)
	}
	// A hostile count prefix must not drive a huge allocation.
	bad := NewBuffer(TagSize + PlayerStateSize + 2)
	bad.WriteU16(uint16(TagPlayerData))
	(&PlayerState{}).EncodeTo(bad)
	bad.WriteU16(0xffff)
	if _, err := DecodeClient(bad.Bytes()); !errors.Is(err, ErrTruncatedPacket) {
		t.Fatalf("expected ErrTruncatedPacket, got %v", err)
	}
}

func TestLevelDataRoundTrip(t *testing.T) {
	in := &LevelData{
		Players: []AssociatedPlayerState{
			{AccountID: 11, State: PlayerState{PosX: 1}},
			{AccountID: 12, State: PlayerState{PosX: 2}},
		},
		CustomItems: map[uint16]int32{3: 40, 9: -1},
	}
	frame, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(frame) != TagSize+in.EncodedSize() {
		t.Fatalf("frame len %d, want %d", len(frame), TagSize+in.EncodedSize())
	}
	pkt, err := DecodeServer(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := pkt.(*LevelData)
	if len(out.Players) != 2 || out.Players[1].AccountID != 12 {
		t.Fatalf("players = %+v", out.Players)
	}
	if out.CustomItems[3] != 40 || out.CustomItems[9] != -1 {
		t.Fatalf("custom items = %+v", out.CustomItems)
	}
}
