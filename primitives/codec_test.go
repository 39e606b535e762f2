package primitives

import (
	"bytes"
	"io"
	"math"
	"testing"
)

func TestRoundTripU32(t *testing.T) {
	cases := []uint32{0, 1, 0xFFFFFFFF, 0x12345678}
	for _, v := range cases {
		var buf bytes.Buffer
		if err := WriteU32(&buf, v); err != nil {
			t.Fatalf("WriteU32(%d): %v", v, err)
		}
		got, err := ReadU32(&buf)
		if err != nil {
			t.Fatalf("ReadU32: %v", err)
		}
		if got != v {
			t.Errorf("round trip u32: got %d, want %d", got, v)
		}
	}
}

func TestRoundTripI32(t *testing.T) {
	cases := []int32{0, -1, math.MinInt32, math.MaxInt32}
	for _, v := range cases {
		var buf bytes.Buffer
		if err := WriteI32(&buf, v); err != nil {
			t.Fatalf("WriteI32(%d): %v", v, err)
		}
		got, err := ReadI32(&buf)
		if err != nil {
			t.Fatalf("ReadI32: %v", err)
		}
		if got != v {
			t.Errorf("round trip i32: got %d, want %d", got, v)
		}
	}
}

func TestRoundTripF32(t *testing.T) {
	cases := []float32{0, -1.5, 3.14159, math.MaxFloat32, float32(math.Inf(1))}
	for _, v := range cases {
		var buf bytes.Buffer
		if err := WriteF32(&buf, v); err != nil {
			t.Fatalf("WriteF32(%v): %v", v, err)
		}
		got, err := ReadF32(&buf)
		if err != nil {
			t.Fatalf("ReadF32: %v", err)
		}
		if got != v {
			t.Errorf("round trip f32: got %v, want %v", got, v)
		}
	}
}

func TestReadU32ShortRead(t *testing.T) {
	buf := bytes.NewReader([]byte{0x01, 0x02})
	if _, err := ReadU32(buf); err == nil {
		t.Fatal("expected short read error, got nil")
	}
}

func TestReadU8CleanEOF(t *testing.T) {
	buf := bytes.NewReader(nil)
	if _, err := ReadU8(buf); err != io.EOF {
		t.Fatalf("expected io.EOF at clean boundary, got %v", err)
	}
}

func TestPutHelpersMatchWriters(t *testing.T) {
	var viaWrite bytes.Buffer
	_ = WriteU32(&viaWrite, 0xDEADBEEF)

	var b [4]byte
	PutU32(b[:], 0xDEADBEEF)

	if !bytes.Equal(viaWrite.Bytes(), b[:]) {
		t.Errorf("PutU32 disagrees with WriteU32: %x vs %x", b, viaWrite.Bytes())
	}
}
