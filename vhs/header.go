package vhs

import (
	"github.com/mrkline/flt2vhs/flt"
	"github.com/mrkline/flt2vhs/primitives"
)

// Magic is the four-byte file signature.
var Magic = [4]byte{'E', 'P', 'A', 'T'}

// encodeHeader writes the 80-byte header into dst (which must be exactly
// HeaderSize long). The "file size" slot downstream viewers read is
// TextEventOffset, not the true FileLength — a documented quirk required
// for compatibility with existing consumers.
func encodeHeader(dst []byte, f *flt.Flight, l *Layout) {
	if len(dst) != HeaderSize {
		panic("vhs: header buffer must be exactly HeaderSize bytes")
	}
	copy(dst[0:4], Magic[:])

	u32s := []uint32{
		uint32(l.TextEventOffset),
		uint32(l.EntityCount),
		uint32(l.FeatureCount),
		uint32(EntityOffset),
		uint32(l.FeatureOffset),
		uint32(l.PositionCount),
		uint32(l.PositionOffset),
		uint32(l.EntityEventOffset),
		uint32(l.GeneralEventOffset),
		uint32(l.GeneralEventTrailerOffset),
		uint32(l.TextEventOffset),
		uint32(l.FeatureEventOffset),
		uint32(l.GeneralEventCount),
		uint32(l.EntityEventCount),
		0, // text event count is literally zero
		uint32(l.FeatureEventCount),
	}
	off := 4
	for _, v := range u32s {
		primitives.PutU32(dst[off:off+4], v)
		off += 4
	}

	primitives.PutF32(dst[off:off+4], f.StartTime)
	off += 4
	primitives.PutF32(dst[off:off+4], f.EndTime-f.StartTime)
	off += 4
	primitives.PutF32(dst[off:off+4], f.TODOffset)
	off += 4

	if off != HeaderSize {
		panic("vhs: header assertion failed, offsets don't sum to HeaderSize")
	}
}
