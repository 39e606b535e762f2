package vhs

import (
	"testing"

	"github.com/mrkline/flt2vhs/flt"
)

func TestPlanEmptyFlight(t *testing.T) {
	f := flt.NewFlight()
	l := Plan(f, 0)

	if l.FeatureOffset != HeaderSize {
		t.Fatalf("feature offset should equal header size with no entities, got %d", l.FeatureOffset)
	}
	if l.PositionOffset != l.FeatureOffset {
		t.Fatalf("position offset should equal feature offset with no entities/features")
	}
	if l.FileLength != l.TextEventOffset+4 {
		t.Fatalf("empty callsign table should just be the 4-byte count, got file length %d vs text offset %d", l.FileLength, l.TextEventOffset)
	}
}

func TestPlanSectionsAreMonotonic(t *testing.T) {
	f := flt.NewFlight()
	f.Entities[1] = &flt.Entity{
		Position: &flt.PositionData{
			Kind: 1, Flags: flt.FlagAircraft,
			PositionUpdates: []flt.PositionUpdate{
				{Time: 0, RadarTarget: -1},
				{Time: 1, RadarTarget: -1},
			},
		},
		Events: []flt.EntityEvent{{Time: 0.5, Kind: flt.EventKindSwitch}},
	}
	f.Features[2] = &flt.Feature{Kind: 3}
	f.GeneralEvents = []flt.GeneralEvent{{Kind: flt.GeneralEventTracer, Start: 0, Stop: 1}}
	f.FeatureEvents = []flt.FeatureEvent{{Time: 0.1, FeatureUID: 2, NewStatus: 1}}

	l := Plan(f, 0)

	offsets := []int64{
		EntityOffset, l.FeatureOffset, l.PositionOffset,
		l.EntityEventOffset, l.GeneralEventOffset, l.GeneralEventTrailerOffset,
		l.FeatureEventOffset, l.TextEventOffset, l.FileLength,
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			t.Fatalf("offsets must be non-decreasing, got %v", offsets)
		}
	}

	if l.PositionCount != 3 { // 2 entity updates + 1 feature
		t.Fatalf("expected 3 position slots, got %d", l.PositionCount)
	}
	if l.EntityEventCount != 1 {
		t.Fatalf("expected 1 entity event, got %d", l.EntityEventCount)
	}
}

func TestPlanByteCountsMatchSpec(t *testing.T) {
	if HeaderSize != 80 || EntityRecordSize != 36 || TimelineEntrySize != 41 ||
		GeneralEventSize != 65 || GeneralEventTrailerSize != 8 ||
		FeatureEventSize != 16 || CallsignRecordSize != 20 {
		t.Fatal("fixed record sizes drifted from the documented wire format")
	}
}
