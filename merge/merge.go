// Package merge implements the idempotent splice of a following Flight
// ("B") into a preceding one ("A"), matching entities and features across
// file boundaries so that one logical flight recorded across several FLT
// files becomes one Flight.
package merge

import (
	"math"
	"sort"

	"github.com/mrkline/flt2vhs/flt"
	"github.com/mrkline/flt2vhs/xlog"
)

// maxMatchDistance is the Euclidean distance threshold (in sim units)
// beyond which a candidate match is rejected.
const maxMatchDistance = 5280.0

// maxTimeGap is the largest allowed gap, in seconds, between A's end time
// and B's start time for the two to be considered contiguous.
const maxTimeGap = 1.0

// Merge decides whether b should be spliced into a and, if so, does it in
// place, mutating a and leaving b untouched. It reports whether the merge
// happened. a and b should come from adjacent files in input order.
func Merge(a, b *flt.Flight, log xlog.Logger) bool {
	if log == nil {
		log = xlog.Noop{}
	}
	if a.Corrupted {
		return false
	}
	if a.TODOffset != b.TODOffset {
		// Logged, not vetoed: a tod_offset mismatch is suspicious but not
		// disqualifying until real-world producers confirm it should be.
		log.Warn("merging flights with differing tod_offset",
			xlog.F("a_tod", a.TODOffset), xlog.F("b_tod", b.TODOffset))
	}
	bEmpty := b.IsEmpty()
	if !bEmpty && b.StartTime-a.EndTime > maxTimeGap {
		return false
	}

	a.Corrupted = a.Corrupted || b.Corrupted
	// A literally empty b (e.g. parsed from a zero-length input file) still
	// carries the unset time sentinel; splicing it in must not clobber a's
	// end time with it.
	if !bEmpty {
		a.EndTime = b.EndTime
	}

	nextID := nextFreeID(a)

	entityRemap, matched := matchEntities(a, b, &nextID)
	applyEntityMerge(a, b, entityRemap, matched)

	featureRemap := matchFeatures(a, b, entityRemap, &nextID)
	applyFeatureMerge(a, b, featureRemap)

	a.GeneralEvents = append(a.GeneralEvents, b.GeneralEvents...)

	return true
}

func nextFreeID(a *flt.Flight) int32 {
	max := int32(-1)
	for id := range a.Entities {
		if id > max {
			max = id
		}
	}
	for id := range a.Features {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// matchEntities builds the uid mapping from B's entities into A's id space,
// advancing nextID for every unmatched entity. matched[bUID] is true iff
// bUID was bound to an existing A entity rather than a fresh id.
func matchEntities(a, b *flt.Flight, nextID *int32) (remap map[int32]int32, matched map[int32]bool) {
	remap = make(map[int32]int32, len(b.Entities))
	matched = make(map[int32]bool, len(b.Entities))
	used := make(map[int32]bool, len(a.Entities))

	for _, bUID := range sortedKeys(b.Entities) {
		bEntity := b.Entities[bUID]
		if bEntity.Position == nil || len(bEntity.Position.PositionUpdates) == 0 {
			continue
		}
		bFirst := bEntity.Position.PositionUpdates[0]
		bKind := bEntity.Position.Kind

		bestID := int32(-1)
		bestDist := math.MaxFloat64

		for _, aUID := range sortedKeys(a.Entities) {
			if used[aUID] {
				continue
			}
			aEntity := a.Entities[aUID]
			if aEntity.Position == nil || aEntity.Position.Kind != bKind || len(aEntity.Position.PositionUpdates) == 0 {
				continue
			}
			aLast := aEntity.Position.PositionUpdates[len(aEntity.Position.PositionUpdates)-1]
			d := distance3(aLast.X, aLast.Y, aLast.Z, bFirst.X, bFirst.Y, bFirst.Z)
			if d < bestDist {
				bestDist = d
				bestID = aUID
			}
			if d == 0 {
				break
			}
		}

		if bestID >= 0 && bestDist < maxMatchDistance {
			remap[bUID] = bestID
			matched[bUID] = true
			used[bestID] = true
		} else {
			remap[bUID] = *nextID
			*nextID++
		}
	}
	return remap, matched
}

func distance3(x1, y1, z1, x2, y2, z2 float32) float64 {
	dx := float64(x1) - float64(x2)
	dy := float64(y1) - float64(y2)
	dz := float64(z1) - float64(z2)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// applyEntityMerge extends matched A entities with B's updates/events and
// inserts fresh entities for unmatched ones, translating radar_target
// references through remap in both cases.
func applyEntityMerge(a, b *flt.Flight, remap map[int32]int32, matched map[int32]bool) {
	for _, bUID := range sortedKeys(b.Entities) {
		bEntity := b.Entities[bUID]
		newID, ok := remap[bUID]
		if !ok {
			continue // entity had no position data; shouldn't occur post-parse
		}

		updates := make([]flt.PositionUpdate, len(bEntity.Position.PositionUpdates))
		for i, u := range bEntity.Position.PositionUpdates {
			u.RadarTarget = translateRadarTarget(u.RadarTarget, remap)
			updates[i] = u
		}

		if matched[bUID] {
			target := a.Entities[newID]
			target.Position.PositionUpdates = append(target.Position.PositionUpdates, updates...)
			target.Events = append(target.Events, bEntity.Events...)
		} else {
			a.Entities[newID] = &flt.Entity{
				Position: &flt.PositionData{
					Kind:            bEntity.Position.Kind,
					Flags:           bEntity.Position.Flags,
					PositionUpdates: updates,
				},
				Events: append([]flt.EntityEvent(nil), bEntity.Events...),
			}
			if cs, ok := b.Callsigns[bUID]; ok {
				a.Callsigns[newID] = cs
			}
		}
	}
}

func translateRadarTarget(target int32, remap map[int32]int32) int32 {
	if target < 0 {
		return -1
	}
	if newID, ok := remap[target]; ok {
		return newID
	}
	return -1
}

// matchFeatures maps B's feature uids into A's id space. Unlike entities,
// many B features may reuse the same A feature.
func matchFeatures(a, b *flt.Flight, entityRemap map[int32]int32, nextID *int32) map[int32]int32 {
	remap := make(map[int32]int32, len(b.Features))

	for _, bUID := range sortedKeys(b.Features) {
		bFeat := b.Features[bUID]

		foundID := int32(-1)
		for _, aUID := range sortedKeys(a.Features) {
			if featureGeometryEqual(a.Features[aUID], bFeat) {
				foundID = aUID
				break
			}
		}

		if foundID >= 0 {
			remap[bUID] = foundID
			continue
		}

		newID := *nextID
		*nextID++
		leadIdx := int32(-1)
		if mapped, ok := entityRemap[bFeat.LeadUID]; ok {
			leadIdx = mapped
		}
		a.Features[newID] = &flt.Feature{
			Kind: bFeat.Kind, LeadUID: leadIdx, Slot: bFeat.Slot,
			SpecialFlags: bFeat.SpecialFlags, Time: bFeat.Time,
			X: bFeat.X, Y: bFeat.Y, Z: bFeat.Z,
			Pitch: bFeat.Pitch, Roll: bFeat.Roll, Yaw: bFeat.Yaw,
		}
		if cs, ok := b.Callsigns[bUID]; ok {
			a.Callsigns[newID] = cs
		}
		remap[bUID] = newID
	}
	return remap
}

func featureGeometryEqual(a, b *flt.Feature) bool {
	return a.Kind == b.Kind && a.Slot == b.Slot && a.SpecialFlags == b.SpecialFlags &&
		a.X == b.X && a.Y == b.Y && a.Z == b.Z &&
		a.Pitch == b.Pitch && a.Roll == b.Roll && a.Yaw == b.Yaw
}

func applyFeatureMerge(a, b *flt.Flight, featureRemap map[int32]int32) {
	for _, ev := range b.FeatureEvents {
		newUID, ok := featureRemap[ev.FeatureUID]
		if !ok {
			continue
		}
		ev.FeatureUID = newUID
		a.FeatureEvents = append(a.FeatureEvents, ev)
	}
}

// sortedKeys returns m's int32 keys in ascending order, giving the matching
// and remap passes a deterministic, reproducible iteration order.
func sortedKeys[V any](m map[int32]V) []int32 {
	keys := make([]int32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
