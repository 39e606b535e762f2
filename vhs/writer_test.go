package vhs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrkline/flt2vhs/flt"
	"github.com/mrkline/flt2vhs/xlog"
)

func TestWriteProducesMagicAndCorrectLength(t *testing.T) {
	f := flt.NewFlight()
	f.StartTime, f.EndTime = 0, 2
	f.Entities[1] = &flt.Entity{
		Position: &flt.PositionData{
			Kind: 1, Flags: flt.FlagAircraft,
			PositionUpdates: []flt.PositionUpdate{
				{Time: 0, X: 1, Y: 2, Z: 3, RadarTarget: -1},
				{Time: 1, X: 4, Y: 5, Z: 6, RadarTarget: -1},
			},
		},
	}
	f.Callsigns[1] = flt.CallsignRecord{TeamColor: 7}

	dir := t.TempDir()
	path := filepath.Join(dir, "out.vhs")

	if err := Write(path, f, xlog.Noop{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	if !bytes.Equal(data[0:4], Magic[:]) {
		t.Fatalf("expected magic %v, got %v", Magic, data[0:4])
	}

	l := Plan(f, 1)
	if int64(len(data)) != l.FileLength {
		t.Fatalf("expected file length %d, got %d", l.FileLength, len(data))
	}
}

func TestWritePositionChainIsDoublyLinked(t *testing.T) {
	f := flt.NewFlight()
	f.StartTime, f.EndTime = 0, 1
	f.Entities[1] = &flt.Entity{
		Position: &flt.PositionData{
			Kind: 1, Flags: flt.FlagAircraft,
			PositionUpdates: []flt.PositionUpdate{
				{Time: 0, RadarTarget: -1},
				{Time: 0.5, RadarTarget: -1},
				{Time: 1, RadarTarget: -1},
			},
		},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "out.vhs")
	if err := Write(path, f, xlog.Noop{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	l := Plan(f, 0)
	base := l.PositionOffset

	readU32At := func(off int64) uint32 {
		return decodeU32LE(data[off : off+4])
	}

	firstNext := readU32At(base + 33)
	if int64(firstNext) != base+TimelineEntrySize {
		t.Fatalf("first record's next pointer should point at the second record, got %d want %d",
			firstNext, base+TimelineEntrySize)
	}
	firstPrev := readU32At(base + 37)
	if firstPrev != 0 {
		t.Fatalf("first record's prev pointer should be 0, got %d", firstPrev)
	}

	lastOff := base + TimelineEntrySize*2
	lastNext := readU32At(lastOff + 33)
	if lastNext != 0 {
		t.Fatalf("last record's next pointer should be 0, got %d", lastNext)
	}
	lastPrev := readU32At(lastOff + 37)
	if int64(lastPrev) != base+TimelineEntrySize {
		t.Fatalf("last record's prev pointer should point at the middle record, got %d", lastPrev)
	}
}

func decodeU32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
