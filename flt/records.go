package flt

import (
	"io"

	"github.com/mrkline/flt2vhs/primitives"
)

// Discriminant is the one-byte record-type tag at the head of each FLT
// record.
type Discriminant uint8

const (
	RecGeneralPosition Discriminant = 0
	RecMissilePosition Discriminant = 1
	RecFeaturePosition Discriminant = 2
	RecAircraftPosition Discriminant = 3
	RecTracerStart     Discriminant = 4
	RecStationarySFX   Discriminant = 5
	RecMovingSFX       Discriminant = 6
	RecSwitch          Discriminant = 7
	RecDof             Discriminant = 8
	RecChaffPosition   Discriminant = 9
	RecFlarePosition   Discriminant = 10
	RecTODOffset       Discriminant = 11
	RecFeatureStatus   Discriminant = 12
	RecCallsignList    Discriminant = 13
)

// IsValid reports whether d is one of the fourteen defined discriminants.
func (d Discriminant) IsValid() bool {
	return d <= RecCallsignList
}

// positionBody is the shared {x,y,z,pitch,roll,yaw} pose carried by every
// position record kind.
type positionBody struct {
	X, Y, Z          float32
	Pitch, Roll, Yaw float32
}

func readPositionBody(r io.Reader) (positionBody, error) {
	var b positionBody
	var err error
	for _, f := range []*float32{&b.X, &b.Y, &b.Z, &b.Pitch, &b.Roll, &b.Yaw} {
		if *f, err = primitives.ReadF32(r); err != nil {
			return b, err
		}
	}
	return b, nil
}

// entityPositionRecord is the body shape shared by GENERAL_POS, MISSILE_POS,
// AIRCRAFT_POS, CHAFF_POS and FLARE_POS: {uid, kind, pose}. kind is the
// entity's type id, used by the merge engine's same-kind matching; it is
// independent of the flags the dispatch table assigns per record
// discriminant.
type entityPositionRecord struct {
	UID, Kind int32
	Pose      positionBody
}

func readEntityPositionRecord(r io.Reader) (entityPositionRecord, error) {
	var rec entityPositionRecord
	var err error
	if rec.UID, err = primitives.ReadI32(r); err != nil {
		return rec, err
	}
	if rec.Kind, err = primitives.ReadI32(r); err != nil {
		return rec, err
	}
	if rec.Pose, err = readPositionBody(r); err != nil {
		return rec, err
	}
	return rec, nil
}

// featurePositionBody is the body of a FEATURE_POS record.
type featurePositionBody struct {
	Kind, LeadUID, Slot int32
	SpecialFlags        uint32
	Pose                positionBody
}

func readFeaturePositionBody(r io.Reader) (featurePositionBody, error) {
	var b featurePositionBody
	var err error
	if b.Kind, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	if b.LeadUID, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	if b.Slot, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	if b.SpecialFlags, err = primitives.ReadU32(r); err != nil {
		return b, err
	}
	if b.Pose, err = readPositionBody(r); err != nil {
		return b, err
	}
	return b, nil
}

// tracerStartBody is the body of a TRACER_START record.
type tracerStartBody struct {
	X, Y, Z    float32
	Dx, Dy, Dz float32
}

func readTracerStartBody(r io.Reader) (tracerStartBody, error) {
	var b tracerStartBody
	var err error
	for _, f := range []*float32{&b.X, &b.Y, &b.Z, &b.Dx, &b.Dy, &b.Dz} {
		if *f, err = primitives.ReadF32(r); err != nil {
			return b, err
		}
	}
	return b, nil
}

// stationarySFXBody is the body of a STATIONARY_SFX record.
type stationarySFXBody struct {
	Kind       int32
	X, Y, Z    float32
	TTL, Scale float32
}

func readStationarySFXBody(r io.Reader) (stationarySFXBody, error) {
	var b stationarySFXBody
	var err error
	if b.Kind, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	for _, f := range []*float32{&b.X, &b.Y, &b.Z, &b.TTL, &b.Scale} {
		if *f, err = primitives.ReadF32(r); err != nil {
			return b, err
		}
	}
	return b, nil
}

// movingSFXBody is the body of a MOVING_SFX record.
type movingSFXBody struct {
	Kind, User int32
	Flags      uint32
	X, Y, Z    float32
	Dx, Dy, Dz float32
	TTL, Scale float32
}

func readMovingSFXBody(r io.Reader) (movingSFXBody, error) {
	var b movingSFXBody
	var err error
	if b.Kind, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	if b.User, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	if b.Flags, err = primitives.ReadU32(r); err != nil {
		return b, err
	}
	for _, f := range []*float32{&b.X, &b.Y, &b.Z, &b.Dx, &b.Dy, &b.Dz, &b.TTL, &b.Scale} {
		if *f, err = primitives.ReadF32(r); err != nil {
			return b, err
		}
	}
	return b, nil
}

// switchBody is the body of a SWITCH record.
type switchBody struct {
	Kind, UID                       int32
	SwitchNumber, New, Previous int32
}

func readSwitchBody(r io.Reader) (switchBody, error) {
	var b switchBody
	var err error
	for _, f := range []*int32{&b.Kind, &b.UID, &b.SwitchNumber, &b.New, &b.Previous} {
		if *f, err = primitives.ReadI32(r); err != nil {
			return b, err
		}
	}
	return b, nil
}

// dofBody is the body of a DOF record.
type dofBody struct {
	Kind, UID  int32
	DofNumber  int32
	New, Previous float32
}

func readDofBody(r io.Reader) (dofBody, error) {
	var b dofBody
	var err error
	if b.Kind, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	if b.UID, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	if b.DofNumber, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	if b.New, err = primitives.ReadF32(r); err != nil {
		return b, err
	}
	if b.Previous, err = primitives.ReadF32(r); err != nil {
		return b, err
	}
	return b, nil
}

// featureStatusBody is the body of a FEATURE_STATUS record.
type featureStatusBody struct {
	UID, New, Previous int32
}

func readFeatureStatusBody(r io.Reader) (featureStatusBody, error) {
	var b featureStatusBody
	var err error
	if b.UID, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	if b.New, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	if b.Previous, err = primitives.ReadI32(r); err != nil {
		return b, err
	}
	return b, nil
}

func readCallsignRecord(r io.Reader) (CallsignRecord, error) {
	var c CallsignRecord
	if _, err := io.ReadFull(r, c.Label[:]); err != nil {
		return c, primitives.ErrShortRead
	}
	var err error
	if c.TeamColor, err = primitives.ReadI32(r); err != nil {
		return c, err
	}
	return c, nil
}
