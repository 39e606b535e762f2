package flt

import "github.com/mrkline/flt2vhs/xlog"

// entity returns the entity for uid, creating a bare one (no position data
// yet) if it doesn't exist. Callers that are about to attach position data
// call this, then seedPosition; callers that only have an event (switch/dof)
// call this and leave Position nil, relying on post-parse cleanup to prune
// it if no position ever arrives.
func (f *Flight) entity(uid int32) *Entity {
	e, ok := f.Entities[uid]
	if !ok {
		e = &Entity{}
		f.Entities[uid] = e
	}
	return e
}

// UpsertEntityPosition appends upd to the position trail for uid, seeding
// the trail's (kind, flags) if this is the first position record for uid.
// If the entity already has position data with a different kind or flags,
// the original kind/flags win but the update is still appended.
func (f *Flight) UpsertEntityPosition(log xlog.Logger, uid, kind int32, flags uint32, upd PositionUpdate) {
	f.ObserveTime(upd.Time)
	e := f.entity(uid)
	if e.Position == nil {
		e.Position = &PositionData{Kind: kind, Flags: flags}
	} else if e.Position.Kind != kind || e.Position.Flags != flags {
		log.Warn("entity position kind/flags mismatch, keeping original",
			xlog.F("uid", uid),
			xlog.F("original_kind", e.Position.Kind), xlog.F("new_kind", kind),
			xlog.F("original_flags", e.Position.Flags), xlog.F("new_flags", flags))
	}
	e.Position.PositionUpdates = append(e.Position.PositionUpdates, upd)
}

// AppendEntityEvent records a switch or DOF event against uid, creating the
// entity (without position data) if necessary.
func (f *Flight) AppendEntityEvent(t float32, uid int32, ev EntityEvent) {
	f.ObserveTime(t)
	e := f.entity(uid)
	e.Events = append(e.Events, ev)
}

// UpsertFeature inserts a feature the first time uid is seen. A later
// position record for the same uid never changes the stored feature; one
// whose geometry tuple differs is logged and dropped.
func (f *Flight) UpsertFeature(log xlog.Logger, uid int32, feat Feature) {
	f.ObserveTime(feat.Time)
	existing, ok := f.Features[uid]
	if !ok {
		stored := feat
		f.Features[uid] = &stored
		return
	}
	if !existing.geometryEquals(&feat) {
		log.Warn("duplicate feature position with differing geometry, ignoring", xlog.F("uid", uid))
	}
}

// ApplyFeatureStatus appends a FeatureEvent if uid names a known feature;
// otherwise the record is dropped with a log.
func (f *Flight) ApplyFeatureStatus(log xlog.Logger, t float32, uid, newStatus, prevStatus int32) {
	f.ObserveTime(t)
	if _, ok := f.Features[uid]; !ok {
		log.Warn("feature status references unknown feature, dropping", xlog.F("uid", uid))
		return
	}
	f.FeatureEvents = append(f.FeatureEvents, FeatureEvent{
		Time: t, FeatureUID: uid, NewStatus: newStatus, PreviousStatus: prevStatus,
	})
}

// AppendGeneralEvent appends ev, observing its start time as a record
// timestamp.
func (f *Flight) AppendGeneralEvent(ev GeneralEvent) {
	f.ObserveTime(ev.Start)
	f.GeneralEvents = append(f.GeneralEvents, ev)
}

// ApplyCallsigns replaces the callsign table wholesale: for every entity/feature uid k in [0, len(array)), if array[k] isn't
// the zero sentinel, it becomes f.Callsigns[k].
func (f *Flight) ApplyCallsigns(log xlog.Logger, array []CallsignRecord) {
	if len(f.Callsigns) != 0 {
		log.Warn("callsign list already populated, replacing (last wins)")
	}
	f.Callsigns = make(map[int32]CallsignRecord)
	for k, rec := range array {
		if rec.IsZero() {
			continue
		}
		uid := int32(k)
		_, isEntity := f.Entities[uid]
		_, isFeature := f.Features[uid]
		if isEntity || isFeature {
			f.Callsigns[uid] = rec
		}
	}
}

// PruneEntitiesWithoutPosition removes every entity whose Position is still
// nil, guaranteeing the writer's invariant that every retained entity has a
// non-empty position trail.
func (f *Flight) PruneEntitiesWithoutPosition(log xlog.Logger) {
	pruned := 0
	for uid, e := range f.Entities {
		if e.Position == nil {
			delete(f.Entities, uid)
			pruned++
		}
	}
	if pruned > 0 {
		log.Info("pruned entities without position data", xlog.F("count", pruned))
	}
}
