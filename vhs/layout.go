// Package vhs lays out and writes the indexed, random-access VHS output
// format: a fixed header followed by seven sections whose offsets are all
// computed in advance from a finalized flt.Flight.
package vhs

import "github.com/mrkline/flt2vhs/flt"

// Fixed record sizes, in bytes.
const (
	HeaderSize               = 80
	EntityOffset             = 80
	EntityRecordSize         = 36
	TimelineEntrySize        = 41
	GeneralEventSize         = 65
	GeneralEventTrailerSize  = 8
	FeatureEventSize         = 16
	CallsignRecordSize       = 20
)

// FeatureFlag is the flags value written for every feature section record:
// features don't carry FLT-side position flags, but the VHS feature record
// always sets this bit.
const FeatureFlag uint32 = 0x2

// Layout is every offset and count the writer needs, computed in advance so
// that no section needs to be revisited once written.
type Layout struct {
	EntityCount   int32
	FeatureCount  int32
	FeatureOffset int64

	PositionOffset int64
	PositionCount  int32

	EntityEventOffset int64
	EntityEventCount  int32

	GeneralEventOffset        int64
	GeneralEventTrailerOffset int64
	GeneralEventCount         int32

	FeatureEventOffset int64
	FeatureEventCount  int32

	TextEventOffset int64
	CallsignCount   int32
	FileLength      int64
}

// Plan computes a Layout for f, given the callsign count K that the id
// remapper decided to emit.
func Plan(f *flt.Flight, callsignCount int32) *Layout {
	l := &Layout{
		EntityCount:  int32(len(f.Entities)),
		FeatureCount: int32(len(f.Features)),

		GeneralEventCount: int32(len(f.GeneralEvents)),
		FeatureEventCount: int32(len(f.FeatureEvents)),
		CallsignCount:     callsignCount,
	}

	l.FeatureOffset = EntityOffset + EntityRecordSize*int64(l.EntityCount)
	l.PositionOffset = l.FeatureOffset + EntityRecordSize*int64(l.FeatureCount)

	positionUpdateCount := int32(0)
	entityEventCount := int32(0)
	for _, e := range f.Entities {
		positionUpdateCount += int32(len(e.Position.PositionUpdates))
		entityEventCount += int32(len(e.Events))
	}
	l.PositionCount = positionUpdateCount + l.FeatureCount
	l.EntityEventCount = entityEventCount

	l.EntityEventOffset = l.PositionOffset + TimelineEntrySize*int64(l.PositionCount)
	l.GeneralEventOffset = l.EntityEventOffset + TimelineEntrySize*int64(l.EntityEventCount)
	l.GeneralEventTrailerOffset = l.GeneralEventOffset + GeneralEventSize*int64(l.GeneralEventCount)
	l.FeatureEventOffset = l.GeneralEventTrailerOffset + GeneralEventTrailerSize*int64(l.GeneralEventCount)
	l.TextEventOffset = l.FeatureEventOffset + FeatureEventSize*int64(l.FeatureEventCount)
	l.FileLength = l.TextEventOffset + 4 + CallsignRecordSize*int64(l.CallsignCount)

	return l
}
