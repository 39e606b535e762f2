package vhs

import (
	"fmt"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sync/errgroup"

	"github.com/mrkline/flt2vhs/flt"
	"github.com/mrkline/flt2vhs/primitives"
	"github.com/mrkline/flt2vhs/xlog"
)

// entityMeta is the per-entity bookkeeping the entity, position, and
// entity-event sections all need: where this entity's own data starts, and
// how much of it there is. Computed once, read by every section goroutine.
type entityMeta struct {
	original         int32
	newID            int32
	kind             int32
	kindOrdinal      int32
	flags            uint32
	updates          []flt.PositionUpdate
	events           []flt.EntityEvent
	firstPosOffset   int64
	firstEventOffset int64
}

// Write plans, sizes, memory-maps, and populates path with f's VHS
// representation.
func Write(path string, f *flt.Flight, log xlog.Logger) error {
	if log == nil {
		log = xlog.Noop{}
	}

	remap := BuildRemapping(f)
	layout := Plan(f, int32(len(remap.Callsigns)))

	entityMetas := buildEntityMeta(f, remap, layout)
	featureByOriginal := make(map[int32]int32, len(remap.FeatureRemaps))
	for _, r := range remap.FeatureRemaps {
		featureByOriginal[r.Original] = r.New
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening vhs output: %w", err)
	}
	defer file.Close()

	if err := file.Truncate(layout.FileLength); err != nil {
		return fmt.Errorf("sizing vhs output: %w", err)
	}

	m, err := mmap.Map(file, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("mapping vhs output: %w", err)
	}
	defer m.Unmap()

	log.Info("writing vhs file",
		xlog.F("path", path), xlog.F("entities", layout.EntityCount),
		xlog.F("features", layout.FeatureCount), xlog.F("bytes", layout.FileLength))

	var g errgroup.Group

	g.Go(func() error {
		encodeHeader(m[0:HeaderSize], f, layout)
		return nil
	})
	g.Go(func() error {
		return writeEntitySection(m, entityMetas, layout, remap)
	})
	g.Go(func() error {
		return writeFeatureSection(m, f, remap, featureByOriginal, layout)
	})
	g.Go(func() error {
		return writePositionSection(m, entityMetas, f, remap, layout)
	})
	g.Go(func() error {
		return writeEntityEventSection(m, entityMetas, layout)
	})
	g.Go(func() error {
		return writeGeneralEventSection(m, f, layout)
	})
	g.Go(func() error {
		return writeFeatureEventSection(m, f, featureByOriginal, layout)
	})
	g.Go(func() error {
		return writeCallsignSection(m, remap, layout)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if err := m.Flush(); err != nil {
		return fmt.Errorf("flushing vhs output: %w", err)
	}
	return nil
}

// buildEntityMeta computes, in entity_remaps order, each entity's
// kind-ordinal and the running position/event offsets the entity section
// will point into.
func buildEntityMeta(f *flt.Flight, remap *Remapping, layout *Layout) []entityMeta {
	metas := make([]entityMeta, len(remap.EntityRemaps))
	ordinals := make(map[int32]int32)

	posCursor := layout.PositionOffset
	eventCursor := layout.EntityEventOffset

	for i, r := range remap.EntityRemaps {
		e := f.Entities[r.Original]
		ordinals[e.Position.Kind]++

		m := entityMeta{
			original:       r.Original,
			newID:          r.New,
			kind:           e.Position.Kind,
			kindOrdinal:    ordinals[e.Position.Kind],
			flags:          e.Position.Flags,
			updates:        e.Position.PositionUpdates,
			events:         e.Events,
			firstPosOffset: posCursor,
		}
		if len(e.Events) > 0 {
			m.firstEventOffset = eventCursor
		}
		metas[i] = m

		posCursor += TimelineEntrySize * int64(len(e.Position.PositionUpdates))
		eventCursor += TimelineEntrySize * int64(len(e.Events))
	}
	return metas
}

func writeEntitySection(m mmap.MMap, metas []entityMeta, layout *Layout, remap *Remapping) error {
	for i, meta := range metas {
		off := EntityOffset + EntityRecordSize*int64(i)
		rec := m[off : off+EntityRecordSize]
		primitives.PutI32(rec[0:4], meta.newID)
		primitives.PutI32(rec[4:8], meta.kind)
		primitives.PutI32(rec[8:12], meta.kindOrdinal)
		primitives.PutU32(rec[12:16], meta.flags)
		primitives.PutI32(rec[16:20], 0)
		primitives.PutI32(rec[20:24], 0)
		primitives.PutU32(rec[24:28], 0)
		primitives.PutU32(rec[28:32], uint32(meta.firstPosOffset))
		primitives.PutU32(rec[32:36], uint32(meta.firstEventOffset))
	}
	if got, want := EntityOffset+EntityRecordSize*int64(len(metas)), layout.FeatureOffset; got != want {
		return fmt.Errorf("vhs: entity section end %d disagrees with planned feature offset %d", got, want)
	}
	return nil
}

func writeFeatureSection(m mmap.MMap, f *flt.Flight, remap *Remapping, featureByOriginal map[int32]int32, layout *Layout) error {
	featurePositionBase := layout.PositionOffset + TimelineEntrySize*int64(layout.PositionCount-layout.FeatureCount)

	for i, r := range remap.FeatureRemaps {
		feat := f.Features[r.Original]
		off := layout.FeatureOffset + EntityRecordSize*int64(i)
		rec := m[off : off+EntityRecordSize]

		leadIndex := int32(-1)
		if mapped, ok := featureByOriginal[feat.LeadUID]; ok {
			leadIndex = mapped
		}

		primitives.PutI32(rec[0:4], r.New)
		primitives.PutI32(rec[4:8], feat.Kind)
		primitives.PutI32(rec[8:12], 0)
		primitives.PutU32(rec[12:16], FeatureFlag)
		primitives.PutI32(rec[16:20], leadIndex)
		primitives.PutI32(rec[20:24], feat.Slot)
		primitives.PutU32(rec[24:28], feat.SpecialFlags)
		primitives.PutU32(rec[28:32], uint32(featurePositionBase+TimelineEntrySize*int64(i)))
		primitives.PutU32(rec[32:36], 0)
	}

	if got, want := layout.FeatureOffset+EntityRecordSize*int64(len(remap.FeatureRemaps)), layout.PositionOffset; got != want {
		return fmt.Errorf("vhs: feature section end %d disagrees with planned position offset %d", got, want)
	}
	return nil
}

func writePositionSection(m mmap.MMap, metas []entityMeta, f *flt.Flight, remap *Remapping, layout *Layout) error {
	entityByOriginal := make(map[int32]int32, len(remap.EntityRemaps))
	for _, r := range remap.EntityRemaps {
		entityByOriginal[r.Original] = r.New
	}

	for _, meta := range metas {
		base := meta.firstPosOffset
		n := len(meta.updates)
		for i, u := range meta.updates {
			off := base + TimelineEntrySize*int64(i)
			rec := m[off : off+TimelineEntrySize]

			radarIdx := int32(-1)
			if u.RadarTarget >= 0 {
				if mapped, ok := entityByOriginal[u.RadarTarget]; ok {
					radarIdx = mapped
				}
			}

			var prevOff, nextOff uint32
			if i > 0 {
				prevOff = uint32(base + TimelineEntrySize*int64(i-1))
			}
			if i < n-1 {
				nextOff = uint32(base + TimelineEntrySize*int64(i+1))
			}

			encodeTimelinePosition(rec, u, radarIdx, nextOff, prevOff)
		}
	}

	featurePositionBase := layout.PositionOffset + TimelineEntrySize*int64(layout.PositionCount-layout.FeatureCount)
	for i, r := range remap.FeatureRemaps {
		feat := f.Features[r.Original]
		off := featurePositionBase + TimelineEntrySize*int64(i)
		rec := m[off : off+TimelineEntrySize]
		encodeTimelinePosition(rec, flt.PositionUpdate{
			Time: feat.Time, X: feat.X, Y: feat.Y, Z: feat.Z,
			Pitch: feat.Pitch, Roll: feat.Roll, Yaw: feat.Yaw,
		}, -1, 0, 0)
	}
	return nil
}

// encodeTimelinePosition writes a 41-byte position-tagged timeline entry.
func encodeTimelinePosition(rec []byte, u flt.PositionUpdate, radarIdx int32, nextOff, prevOff uint32) {
	primitives.PutF32(rec[0:4], u.Time)
	rec[4] = 0 // tag: position
	primitives.PutF32(rec[5:9], u.X)
	primitives.PutF32(rec[9:13], u.Y)
	primitives.PutF32(rec[13:17], u.Z)
	primitives.PutF32(rec[17:21], u.Pitch)
	primitives.PutF32(rec[21:25], u.Roll)
	primitives.PutF32(rec[25:29], u.Yaw)
	primitives.PutI32(rec[29:33], radarIdx)
	primitives.PutU32(rec[33:37], nextOff)
	primitives.PutU32(rec[37:41], prevOff)
}

func writeEntityEventSection(m mmap.MMap, metas []entityMeta, layout *Layout) error {
	for _, meta := range metas {
		if len(meta.events) == 0 {
			continue
		}
		base := meta.firstEventOffset
		n := len(meta.events)
		for i, ev := range meta.events {
			off := base + TimelineEntrySize*int64(i)
			rec := m[off : off+TimelineEntrySize]

			var prevOff, nextOff uint32
			if i > 0 {
				prevOff = uint32(base + TimelineEntrySize*int64(i-1))
			}
			if i < n-1 {
				nextOff = uint32(base + TimelineEntrySize*int64(i+1))
			}
			encodeTimelineEvent(rec, ev, nextOff, prevOff)
		}
	}
	return nil
}

// encodeTimelineEvent writes a 41-byte event-tagged timeline entry: tag,
// three variant-specific fields, 16 bytes of zero padding up to the
// position-record footprint, then the link pair.
func encodeTimelineEvent(rec []byte, ev flt.EntityEvent, nextOff, prevOff uint32) {
	primitives.PutF32(rec[0:4], ev.Time)
	rec[4] = byte(ev.Kind)
	switch ev.Kind {
	case flt.EventKindSwitch:
		primitives.PutI32(rec[5:9], ev.SwitchNumber)
		primitives.PutI32(rec[9:13], ev.SwitchNewValue)
		primitives.PutI32(rec[13:17], ev.SwitchPreviousValue)
	case flt.EventKindDof:
		primitives.PutI32(rec[5:9], ev.DofNumber)
		primitives.PutF32(rec[9:13], ev.DofNewValue)
		primitives.PutF32(rec[13:17], ev.DofPreviousValue)
	}
	for i := 17; i < 33; i++ {
		rec[i] = 0
	}
	primitives.PutU32(rec[33:37], nextOff)
	primitives.PutU32(rec[37:41], prevOff)
}

type generalEventTrailerEntry struct {
	stop  float32
	index uint32
}

func writeGeneralEventSection(m mmap.MMap, f *flt.Flight, layout *Layout) error {
	trailer := make([]generalEventTrailerEntry, len(f.GeneralEvents))

	for i, ev := range f.GeneralEvents {
		off := layout.GeneralEventOffset + GeneralEventSize*int64(i)
		rec := m[off : off+GeneralEventSize]

		rec[0] = byte(ev.Kind)
		primitives.PutU32(rec[1:5], uint32(i))
		primitives.PutF32(rec[5:9], ev.Start)
		primitives.PutF32(rec[9:13], ev.Stop)
		primitives.PutI32(rec[13:17], ev.EventKind)
		primitives.PutI32(rec[17:21], ev.User)
		primitives.PutU32(rec[21:25], ev.Flags)
		primitives.PutF32(rec[25:29], ev.Scale)
		primitives.PutF32(rec[29:33], ev.X)
		primitives.PutF32(rec[33:37], ev.Y)
		primitives.PutF32(rec[37:41], ev.Z)
		primitives.PutF32(rec[41:45], ev.Dx)
		primitives.PutF32(rec[45:49], ev.Dy)
		primitives.PutF32(rec[49:53], ev.Dz)
		primitives.PutF32(rec[53:57], ev.Roll)
		primitives.PutF32(rec[57:61], ev.Pitch)
		primitives.PutF32(rec[61:65], ev.Yaw)

		trailer[i] = generalEventTrailerEntry{stop: ev.Stop, index: uint32(i)}
	}

	sort.SliceStable(trailer, func(i, j int) bool { return trailer[i].stop < trailer[j].stop })

	for i, t := range trailer {
		off := layout.GeneralEventTrailerOffset + GeneralEventTrailerSize*int64(i)
		rec := m[off : off+GeneralEventTrailerSize]
		primitives.PutF32(rec[0:4], t.stop)
		primitives.PutU32(rec[4:8], t.index)
	}
	return nil
}

func writeFeatureEventSection(m mmap.MMap, f *flt.Flight, featureByOriginal map[int32]int32, layout *Layout) error {
	for i, ev := range f.FeatureEvents {
		off := layout.FeatureEventOffset + FeatureEventSize*int64(i)
		rec := m[off : off+FeatureEventSize]

		idx := int32(-1)
		if mapped, ok := featureByOriginal[ev.FeatureUID]; ok {
			idx = mapped
		}

		primitives.PutF32(rec[0:4], ev.Time)
		primitives.PutI32(rec[4:8], idx)
		primitives.PutI32(rec[8:12], ev.NewStatus)
		primitives.PutI32(rec[12:16], ev.PreviousStatus)
	}
	return nil
}

func writeCallsignSection(m mmap.MMap, remap *Remapping, layout *Layout) error {
	off := layout.TextEventOffset
	primitives.PutU32(m[off:off+4], uint32(len(remap.Callsigns)))
	off += 4
	for _, cs := range remap.Callsigns {
		rec := m[off : off+CallsignRecordSize]
		copy(rec[0:16], cs.Label[:])
		primitives.PutI32(rec[16:20], cs.TeamColor)
		off += CallsignRecordSize
	}
	if off != layout.FileLength {
		return fmt.Errorf("vhs: callsign section end %d disagrees with planned file length %d", off, layout.FileLength)
	}
	return nil
}
