package packstream

import (
	"encoding/binary"
	"math"
)

// Writer serialises PackStream primitives into an in-memory buffer. It has
// no knowledge of Bolt's chunked framing (that belongs to the connection
// layer, see bolt/frame.go).
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with an empty buffer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the bytes written so far. The slice is owned by the Writer
// and is invalidated by the next Write* call after a Reset.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reset empties the buffer for reuse.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) putByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *Writer) putBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteNull writes the null marker.
func (w *Writer) WriteNull() {
	w.putByte(markerNil)
}

// WriteBool writes a boolean marker.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.putByte(markerTrue)
	} else {
		w.putByte(markerFalse)
	}
}

// WriteInt writes an integer using the narrowest marker that preserves its
// value, so every integer is packed at its minimal width.
func (w *Writer) WriteInt(v int64) {
	switch {
	case v >= math.MinInt64 && v < math.MinInt32:
		w.putByte(markerInt64)
		w.put64(uint64(v))
	case v >= math.MinInt32 && v < math.MinInt16:
		w.putByte(markerInt32)
		w.put32(uint32(int32(v)))
	case v >= math.MinInt16 && v < math.MinInt8:
		w.putByte(markerInt16)
		w.put16(uint16(int16(v)))
	case v >= math.MinInt8 && v < -16:
		w.putByte(markerInt8)
		w.putByte(byte(int8(v)))
	case v >= -16 && v <= math.MaxInt8:
		w.putByte(byte(int8(v)))
	case v > math.MaxInt8 && v <= math.MaxInt16:
		w.putByte(markerInt16)
		w.put16(uint16(int16(v)))
	case v > math.MaxInt16 && v <= math.MaxInt32:
		w.putByte(markerInt32)
		w.put32(uint32(int32(v)))
	default:
		w.putByte(markerInt64)
		w.put64(uint64(v))
	}
}

// WriteFloat writes an IEEE-754 double.
func (w *Writer) WriteFloat(v float64) {
	w.putByte(markerFloat64)
	w.put64(math.Float64bits(v))
}

func (w *Writer) put16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.putBytes(b[:])
}

func (w *Writer) put32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.putBytes(b[:])
}

func (w *Writer) put64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.putBytes(b[:])
}

// WriteString writes a UTF-8 string using the narrowest length prefix.
func (w *Writer) WriteString(s string) error {
	b := []byte(s)
	if err := w.writeSizedHeader(len(b), markerTinyString, markerString8, markerString16, markerString32); err != nil {
		return err
	}
	w.putBytes(b)
	return nil
}

// WriteBytes writes a raw byte string (the PackStream BYTES family; length
// is capped at 2^31-1).
func (w *Writer) WriteBytes(b []byte) error {
	length := len(b)
	switch {
	case length <= math.MaxUint8:
		w.putByte(markerBytes8)
		w.putByte(byte(length))
	case length <= math.MaxUint16:
		w.putByte(markerBytes16)
		w.put16(uint16(length))
	case length <= math.MaxInt32:
		w.putByte(markerBytes32)
		w.put32(uint32(length))
	default:
		return ErrOverflow
	}
	w.putBytes(b)
	return nil
}

// WriteListHeader writes a list marker for n upcoming values. The caller
// writes the n elements itself.
func (w *Writer) WriteListHeader(n int) error {
	return w.writeSizedHeader(n, markerTinyList, markerList8, markerList16, markerList32)
}

// WriteMapHeader writes a map marker for n upcoming key/value pairs.
func (w *Writer) WriteMapHeader(n int) error {
	return w.writeSizedHeader(n, markerTinyMap, markerMap8, markerMap16, markerMap32)
}

// WriteStructHeader writes a structure marker and its 1-byte signature.
// Structures cap at 16 fields; beyond that ErrOverflow is returned rather
// than falling back to STRUCT16, since no Bolt structure in the wire
// signature table ever carries that many fields.
func (w *Writer) WriteStructHeader(n int, signature byte) error {
	switch {
	case n <= 15:
		w.putByte(byte(markerTinyStruct + n))
	case n == 16:
		w.putByte(markerStruct8)
		w.putByte(byte(n))
	default:
		return ErrOverflow
	}
	w.putByte(signature)
	return nil
}

func (w *Writer) writeSizedHeader(length int, tiny, m8, m16, m32 byte) error {
	switch {
	case length <= 15:
		w.putByte(byte(tiny + byte(length)))
	case length <= math.MaxUint8:
		w.putByte(m8)
		w.putByte(byte(length))
	case length <= math.MaxUint16:
		w.putByte(m16)
		w.put16(uint16(length))
	case length <= math.MaxInt32:
		w.putByte(m32)
		w.put32(uint32(length))
	default:
		return ErrOverflow
	}
	return nil
}
