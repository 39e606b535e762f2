package vhs

import (
	"testing"

	"github.com/mrkline/flt2vhs/flt"
)

func TestRemapCallsignsPackFirst(t *testing.T) {
	f := flt.NewFlight()
	f.Entities[5] = &flt.Entity{Position: &flt.PositionData{Kind: 1, Flags: flt.FlagAircraft}}
	f.Entities[9] = &flt.Entity{Position: &flt.PositionData{Kind: 1, Flags: flt.FlagAircraft}}
	f.Features[2] = &flt.Feature{}
	f.Callsigns[9] = flt.CallsignRecord{TeamColor: 1}

	r := BuildRemapping(f)

	if len(r.Callsigns) != 1 {
		t.Fatalf("expected one callsign, got %d", len(r.Callsigns))
	}

	var newIDOf9 int32 = -1
	for _, e := range r.EntityRemaps {
		if e.Original == 9 {
			newIDOf9 = e.New
		}
	}
	if newIDOf9 != 0 {
		t.Fatalf("entity with a callsign must sort to the front of the id space, got id %d", newIDOf9)
	}
}

func TestRemapEntitiesBeforeFeaturesOnTie(t *testing.T) {
	f := flt.NewFlight()
	f.Entities[1] = &flt.Entity{Position: &flt.PositionData{Kind: 1, Flags: flt.FlagAircraft}}
	f.Features[1] = &flt.Feature{}

	r := BuildRemapping(f)
	if len(r.EntityRemaps) != 1 || len(r.FeatureRemaps) != 1 {
		t.Fatalf("expected one remap on each side, got entities=%d features=%d",
			len(r.EntityRemaps), len(r.FeatureRemaps))
	}
	if r.EntityRemaps[0].New != 0 || r.FeatureRemaps[0].New != 1 {
		t.Fatalf("expected entity to win the tie on a shared original uid, got entity=%d feature=%d",
			r.EntityRemaps[0].New, r.FeatureRemaps[0].New)
	}
}

func TestRemapIsDenseAndUnique(t *testing.T) {
	f := flt.NewFlight()
	f.Entities[100] = &flt.Entity{Position: &flt.PositionData{Kind: 1, Flags: flt.FlagAircraft}}
	f.Entities[200] = &flt.Entity{Position: &flt.PositionData{Kind: 1, Flags: flt.FlagAircraft}}
	f.Features[300] = &flt.Feature{}

	r := BuildRemapping(f)
	seen := make(map[int32]bool)
	for _, e := range r.EntityRemaps {
		seen[e.New] = true
	}
	for _, e := range r.FeatureRemaps {
		seen[e.New] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 unique new ids, got %d", len(seen))
	}
	for i := int32(0); i < 3; i++ {
		if !seen[i] {
			t.Fatalf("id space must be dense [0,3), missing %d", i)
		}
	}
}
