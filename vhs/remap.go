package vhs

import (
	"sort"

	"github.com/mrkline/flt2vhs/flt"
)

// entityTag and featureTag order the combined id space: entities sort
// before features when all other keys tie.
const (
	entityTag = 0
	featureTag = 1
)

// Remap is one {original, new} id pair.
type Remap struct {
	Original int32
	New      int32
}

// Remapping holds dense output ids for every entity and feature, plus the
// packed callsign table those ids imply.
type Remapping struct {
	EntityRemaps  []Remap
	FeatureRemaps []Remap
	Callsigns     []flt.CallsignRecord
}

type remapEntry struct {
	uid         int32
	tag         int
	hasCallsign bool
}

// BuildRemapping packs f's entity and feature ids into the dense id space
// required by the VHS callsign convention: ids [0, K) have callsigns, ids
// [K, N) don't.
func BuildRemapping(f *flt.Flight) *Remapping {
	entries := make([]remapEntry, 0, len(f.Entities)+len(f.Features))

	for uid := range f.Entities {
		_, hasCS := f.Callsigns[uid]
		entries = append(entries, remapEntry{uid: uid, tag: entityTag, hasCallsign: hasCS})
	}
	for uid := range f.Features {
		_, hasCS := f.Callsigns[uid]
		entries = append(entries, remapEntry{uid: uid, tag: featureTag, hasCallsign: hasCS})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.hasCallsign != b.hasCallsign {
			return a.hasCallsign // true (has callsign) sorts first: "descending"
		}
		if a.tag != b.tag {
			return a.tag < b.tag
		}
		return a.uid < b.uid
	})

	r := &Remapping{}
	for newID, e := range entries {
		switch e.tag {
		case entityTag:
			r.EntityRemaps = append(r.EntityRemaps, Remap{Original: e.uid, New: int32(newID)})
		case featureTag:
			r.FeatureRemaps = append(r.FeatureRemaps, Remap{Original: e.uid, New: int32(newID)})
		}
		if e.hasCallsign {
			r.Callsigns = append(r.Callsigns, f.Callsigns[e.uid])
		}
	}
	return r
}
