package jawa

import (
	"bytes"
	"encoding/binary"
)

// DataStream is the module data section. All multi-byte integers in the
// section are little-endian. Size doubles as the cursor: the next write
// lands at the offset Size reports.
type DataStream struct {
	buf bytes.Buffer
}

// Size returns the current byte offset.
func (d *DataStream) Size() int {
	return d.buf.Len()
}

// WriteInt32 appends a little-endian i32.
func (d *DataStream) WriteInt32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	d.buf.Write(b[:])
}

// Write appends raw bytes.
func (d *DataStream) Write(p []byte) (int, error) {
	return d.buf.Write(p)
}

// WriteTo appends the whole stream to another stream.
func (d *DataStream) WriteTo(dst *DataStream) {
	dst.buf.Write(d.buf.Bytes())
}

// Bytes returns the section content written so far.
func (d *DataStream) Bytes() []byte {
	return d.buf.Bytes()
}

// Int32At reads back the little-endian i32 at the given byte offset.
// It is how the dispatch stubs index the section at runtime and how the
// tests verify the descriptor layout.
func (d *DataStream) Int32At(offset int) int32 {
	return int32(binary.LittleEndian.Uint32(d.buf.Bytes()[offset : offset+4]))
}
