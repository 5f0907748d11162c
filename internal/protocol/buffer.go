package protocol

import (
	"encoding/binary"
	"errors"
	"math"
)

var ErrBufferFull = errors.New("write past end of packet buffer")

// Buffer is a fixed-capacity packet writer. It is allocated once from a size
// estimate and never grows; a write past the end sets a sticky error instead
// of reallocating. That keeps broadcast serialization at a single allocation
// per outbound packet.
type Buffer struct {
	b   []byte
	pos int
	err error
}

func NewBuffer(capacity int) *Buffer {
	return &Buffer{b: make([]byte, capacity)}
}

// Bytes returns the written prefix of the buffer.
func (w *Buffer) Bytes() []byte { return w.b[:w.pos] }

func (w *Buffer) Err() error { return w.err }

// Remaining reports how many bytes can still be written.
func (w *Buffer) Remaining() int { return len(w.b) - w.pos }

func (w *Buffer) reserve(n int) []byte {
	if w.err != nil {
		return nil
	}
	if w.pos+n > len(w.b) {
		w.err = ErrBufferFull
		return nil
	}
	s := w.b[w.pos : w.pos+n]
	w.pos += n
	return s
}

func (w *Buffer) WriteU8(v uint8) {
	if s := w.reserve(1); s != nil {
		s[0] = v
	}
}

func (w *Buffer) WriteBool(v bool) {
	var b uint8
	if v {
		b = 1
	}
	w.WriteU8(b)
}

func (w *Buffer) WriteU16(v uint16) {
	if s := w.reserve(2); s != nil {
		binary.LittleEndian.PutUint16(s, v)
	}
}

func (w *Buffer) WriteU32(v uint32) {
	if s := w.reserve(4); s != nil {
		binary.LittleEndian.PutUint32(s, v)
	}
}

func (w *Buffer) WriteI32(v int32) { w.WriteU32(uint32(v)) }

func (w *Buffer) WriteU64(v uint64) {
	if s := w.reserve(8); s != nil {
		binary.LittleEndian.PutUint64(s, v)
	}
}

func (w *Buffer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

func (w *Buffer) WriteF32(v float32) { w.WriteU32(math.Float32bits(v)) }

func (w *Buffer) WriteBytes(v []byte) {
	if s := w.reserve(len(v)); s != nil {
		copy(s, v)
	}
}

// WriteBlob writes a u32 length prefix followed by the raw bytes.
func (w *Buffer) WriteBlob(v []byte) {
	w.WriteU32(uint32(len(v)))
	w.WriteBytes(v)
}

// WriteString writes a u16 length prefix followed by the raw bytes.
func (w *Buffer) WriteString(v string) {
	w.WriteU16(uint16(len(v)))
	w.WriteBytes([]byte(v))
}

// Reader decodes a single received frame. Reads past the end set a sticky
// ErrTruncatedPacket and return zero values.
type Reader struct {
	b   []byte
	pos int
	err error
}

func NewReader(b []byte) *Reader { return &Reader{b: b} }

func (r *Reader) Err() error { return r.err }

func (r *Reader) Remaining() int { return len(r.b) - r.pos }

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.b) {
		r.err = ErrTruncatedPacket
		return nil
	}
	s := r.b[r.pos : r.pos+n]
	r.pos += n
	return s
}

func (r *Reader) ReadU8() uint8 {
	if s := r.take(1); s != nil {
		return s[0]
	}
	return 0
}

func (r *Reader) ReadBool() bool { return r.ReadU8() != 0 }

func (r *Reader) ReadU16() uint16 {
	if s := r.take(2); s != nil {
		return binary.LittleEndian.Uint16(s)
	}
	return 0
}

func (r *Reader) ReadU32() uint32 {
	if s := r.take(4); s != nil {
		return binary.LittleEndian.Uint32(s)
	}
	return 0
}

func (r *Reader) ReadI32() int32 { return int32(r.ReadU32()) }

func (r *Reader) ReadU64() uint64 {
	if s := r.take(8); s != nil {
		return binary.LittleEndian.Uint64(s)
	}
	return 0
}

func (r *Reader) ReadI64() int64 { return int64(r.ReadU64()) }

func (r *Reader) ReadF32() float32 { return math.Float32frombits(r.ReadU32()) }

func (r *Reader) ReadBytes(n int) []byte {
	s := r.take(n)
	if s == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, s)
	return out
}

func (r *Reader) ReadBlob() []byte {
	n := int(r.ReadU32())
	if r.err != nil || n > r.Remaining() {
		r.err = ErrTruncatedPacket
		return nil
	}
	return r.ReadBytes(n)
}

func (r *Reader) ReadString() string {
	n := int(r.ReadU16())
	if r.err != nil || n > r.Remaining() {
		r.err = ErrTruncatedPacket
		return ""
	}
	return string(r.take(n))
}
