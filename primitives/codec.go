// Package primitives provides little-endian readers and writers for the
// integer and float widths shared by the FLT and VHS formats.
package primitives

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ReadU8 reads a single byte from r.
func ReadU8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, shortRead(err)
	}
	return b[0], nil
}

// WriteU8 writes a single byte to w.
func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// ReadU32 reads a little-endian uint32 from r.
func ReadU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, shortRead(err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// WriteU32 writes v to w as little-endian.
func WriteU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// ReadI32 reads a little-endian int32 from r.
func ReadI32(r io.Reader) (int32, error) {
	v, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// WriteI32 writes v to w as little-endian.
func WriteI32(w io.Writer, v int32) error {
	return WriteU32(w, uint32(v))
}

// ReadF32 reads a little-endian IEEE-754 float32 from r.
func ReadF32(r io.Reader) (float32, error) {
	v, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// WriteF32 writes v to w as little-endian IEEE-754.
func WriteF32(w io.Writer, v float32) error {
	return WriteU32(w, math.Float32bits(v))
}

// PutU32 encodes v little-endian into the first 4 bytes of b.
func PutU32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// PutI32 encodes v little-endian into the first 4 bytes of b.
func PutI32(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// PutF32 encodes v little-endian into the first 4 bytes of b.
func PutF32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// ErrShortRead is returned (wrapped) when some, but fewer than the requested,
// bytes are available. When no bytes at all are available the readers
// return io.EOF unwrapped instead.
var ErrShortRead = fmt.Errorf("short read")

func shortRead(cause error) error {
	if cause == io.EOF {
		return io.EOF
	}
	return fmt.Errorf("%w: %v", ErrShortRead, cause)
}
