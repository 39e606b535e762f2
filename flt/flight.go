package flt

// Entity position/feature flags, matching the body of a position record.
const (
	FlagGeneral uint32 = 0x0
	FlagMissile uint32 = 0x1
	FlagAircraft uint32 = 0x4
	FlagChaff   uint32 = 0x8
	FlagFlare   uint32 = 0x10

	// FlagFeature marks a static feature in the VHS feature section; it has
	// no FLT-side position-flag counterpart, only a VHS-side meaning.
	FlagFeature uint32 = 0x2
)

// unsetTime is the sentinel for "no record observed yet".
const unsetTime float32 = -1

// Flight is the root aggregate produced by parsing one FLT file and
// potentially extended in place by the merge engine.
type Flight struct {
	Corrupted bool
	TODOffset float32
	StartTime float32
	EndTime   float32

	Callsigns map[int32]CallsignRecord
	Entities  map[int32]*Entity
	Features  map[int32]*Feature

	GeneralEvents []GeneralEvent
	FeatureEvents []FeatureEvent
}

// NewFlight returns an empty Flight with unset time bounds, ready to be fed
// records by the parser.
func NewFlight() *Flight {
	return &Flight{
		StartTime: unsetTime,
		EndTime:   unsetTime,
		Callsigns: make(map[int32]CallsignRecord),
		Entities:  make(map[int32]*Entity),
		Features:  make(map[int32]*Feature),
	}
}

// IsEmpty reports whether f has no observed records at all, and therefore
// still carries the unset time sentinel. A zero-length input file parses
// to exactly this.
func (f *Flight) IsEmpty() bool {
	return f.StartTime == unsetTime
}

// ObserveTime updates StartTime/EndTime for a non-TOD record's timestamp.
func (f *Flight) ObserveTime(t float32) {
	if f.StartTime == unsetTime || t < f.StartTime {
		f.StartTime = t
	}
	if t > f.EndTime {
		f.EndTime = t
	}
}

// CallsignRecord is a fixed-width label plus team color, keyed by
// entity/feature id. The zero value is the "absent" sentinel.
type CallsignRecord struct {
	Label     [16]byte
	TeamColor int32
}

// IsZero reports whether c is the default-zero "absent" sentinel.
func (c CallsignRecord) IsZero() bool {
	return c.Label == [16]byte{} && c.TeamColor == 0
}

// Entity is a moving object: a position trail plus a sequence of discrete
// events. Entities without Position are pruned at the end of parsing.
type Entity struct {
	Position *PositionData
	Events   []EntityEvent
}

// PositionData is the position trail for one entity, seeded by whichever
// position record first establishes the entity.
type PositionData struct {
	Kind           int32
	Flags          uint32
	PositionUpdates []PositionUpdate
}

// PositionUpdate is one timestamped pose sample.
type PositionUpdate struct {
	Time                   float32
	X, Y, Z                float32
	Pitch, Roll, Yaw       float32
	RadarTarget            int32 // uid, or -1
}

// EntityEventKind discriminates the EntityEvent payload union.
type EntityEventKind uint8

const (
	EventKindSwitch EntityEventKind = 1
	EventKindDof    EntityEventKind = 2
)

// EntityEvent is a timestamped discrete change to an entity: either a
// switch flip or a DOF (degree-of-freedom) animation change. Exactly one of
// the Switch*/Dof* field groups is meaningful, selected by Kind — this
// mirrors the 41-byte tagged union the VHS writer emits.
type EntityEvent struct {
	Time float32
	Kind EntityEventKind

	SwitchNumber       int32
	SwitchNewValue     int32
	SwitchPreviousValue int32

	DofNumber           int32
	DofNewValue         float32
	DofPreviousValue    float32
}

// Feature is a static object. Its identity is its geometric configuration;
// see UpsertFeature for the first-definition-wins rule.
type Feature struct {
	Kind, LeadUID, Slot int32
	SpecialFlags        uint32
	Time                float32
	X, Y, Z             float32
	Pitch, Roll, Yaw    float32
}

// geometryEquals reports whether the two features share the identity tuple
// (kind, lead_uid, slot, special_flags, x, y, z, pitch, roll, yaw).
func (f *Feature) geometryEquals(o *Feature) bool {
	return f.Kind == o.Kind &&
		f.LeadUID == o.LeadUID &&
		f.Slot == o.Slot &&
		f.SpecialFlags == o.SpecialFlags &&
		f.X == o.X && f.Y == o.Y && f.Z == o.Z &&
		f.Pitch == o.Pitch && f.Roll == o.Roll && f.Yaw == o.Yaw
}

// FeatureEvent is a status change on a feature, in input order.
type FeatureEvent struct {
	Time                          float32
	FeatureUID                    int32
	NewStatus, PreviousStatus     int32
}

// GeneralEventKind distinguishes the three GeneralEvent subtypes carried by
// the single discriminated record (tracers, stationary sounds, moving
// sounds); the VHS writer emits it as the type byte of each general-event
// record.
type GeneralEventKind uint8

const (
	GeneralEventTracer      GeneralEventKind = 1
	GeneralEventStationarySFX GeneralEventKind = 2
	GeneralEventMovingSFX   GeneralEventKind = 3
)

// GeneralEvent is a world-level ephemeral event independent of entities.
// Most fields are zero depending on subtype.
type GeneralEvent struct {
	Kind       GeneralEventKind
	Start, Stop float32
	EventKind, User int32
	Flags      uint32
	Scale      float32
	X, Y, Z    float32
	Dx, Dy, Dz float32
	Roll, Pitch, Yaw float32
}
