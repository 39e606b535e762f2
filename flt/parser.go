package flt

import (
	"errors"
	"io"

	"github.com/mrkline/flt2vhs/primitives"
	"github.com/mrkline/flt2vhs/xlog"
)

// Parse consumes r, a bare sequence of FLT records, and returns the Flight
// reconstructed from it. Parse never returns an error: truncation and
// unknown discriminants are recorded on Flight.Corrupted instead.
func Parse(r io.Reader, log xlog.Logger) *Flight {
	if log == nil {
		log = xlog.Noop{}
	}
	f := NewFlight()

	for {
		cont, err := readRecord(f, r, log)
		if err != nil {
			logParseError(log, err)
			f.Corrupted = true
			break
		}
		if !cont {
			break // clean EOF
		}
	}

	f.PruneEntitiesWithoutPosition(log)
	return f
}

// readRecord reads and applies one record. It returns (false, nil) on clean
// end-of-input, and a non-nil error for anything that should mark the
// parse corrupted and stop.
func readRecord(f *Flight, r io.Reader, log xlog.Logger) (bool, error) {
	typeByte, err := primitives.ReadU8(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	disc := Discriminant(typeByte)

	t, err := primitives.ReadF32(r)
	if err != nil {
		return false, &RecordError{Discriminant: typeByte, Cause: err}
	}
	if disc != RecTODOffset {
		f.ObserveTime(t)
	}

	if err := dispatch(f, disc, t, r, log); err != nil {
		return false, &RecordError{Discriminant: typeByte, Cause: err}
	}
	return true, nil
}

func dispatch(f *Flight, disc Discriminant, t float32, r io.Reader, log xlog.Logger) error {
	switch disc {
	case RecGeneralPosition:
		return readAndUpsertPosition(f, r, log, t, FlagGeneral, false)
	case RecMissilePosition:
		return readAndUpsertPosition(f, r, log, t, FlagMissile, false)
	case RecFeaturePosition:
		return applyFeaturePosition(f, r, log, t)
	case RecAircraftPosition:
		return readAndUpsertPosition(f, r, log, t, FlagAircraft, true)
	case RecTracerStart:
		return applyTracer(f, r, t)
	case RecStationarySFX:
		return applyStationarySFX(f, r, t)
	case RecMovingSFX:
		return applyMovingSFX(f, r, t)
	case RecSwitch:
		return applySwitch(f, r, t)
	case RecDof:
		return applyDof(f, r, t)
	case RecChaffPosition:
		return readAndUpsertPosition(f, r, log, t, FlagChaff, false)
	case RecFlarePosition:
		return readAndUpsertPosition(f, r, log, t, FlagFlare, false)
	case RecTODOffset:
		f.TODOffset = t
		return nil
	case RecFeatureStatus:
		return applyFeatureStatus(f, r, log, t)
	case RecCallsignList:
		return applyCallsignList(f, r, log)
	default:
		return ErrUnknownDiscriminant
	}
}

func readAndUpsertPosition(f *Flight, r io.Reader, log xlog.Logger, t float32, flags uint32, hasRadarTarget bool) error {
	rec, err := readEntityPositionRecord(r)
	if err != nil {
		return err
	}
	radarTarget := int32(-1)
	if hasRadarTarget {
		if radarTarget, err = primitives.ReadI32(r); err != nil {
			return err
		}
	}

	f.UpsertEntityPosition(log, rec.UID, rec.Kind, flags, PositionUpdate{
		Time: t, X: rec.Pose.X, Y: rec.Pose.Y, Z: rec.Pose.Z,
		Pitch: rec.Pose.Pitch, Roll: rec.Pose.Roll, Yaw: rec.Pose.Yaw,
		RadarTarget: radarTarget,
	})
	return nil
}

func applyFeaturePosition(f *Flight, r io.Reader, log xlog.Logger, t float32) error {
	uid, err := primitives.ReadI32(r)
	if err != nil {
		return err
	}
	body, err := readFeaturePositionBody(r)
	if err != nil {
		return err
	}
	f.UpsertFeature(log, uid, Feature{
		Kind: body.Kind, LeadUID: body.LeadUID, Slot: body.Slot,
		SpecialFlags: body.SpecialFlags, Time: t,
		X: body.Pose.X, Y: body.Pose.Y, Z: body.Pose.Z,
		Pitch: body.Pose.Pitch, Roll: body.Pose.Roll, Yaw: body.Pose.Yaw,
	})
	return nil
}

func applyTracer(f *Flight, r io.Reader, t float32) error {
	body, err := readTracerStartBody(r)
	if err != nil {
		return err
	}
	f.AppendGeneralEvent(GeneralEvent{
		Kind: GeneralEventTracer, Start: t, Stop: t + 5.0,
		X: body.X, Y: body.Y, Z: body.Z, Dx: body.Dx, Dy: body.Dy, Dz: body.Dz,
	})
	return nil
}

func applyStationarySFX(f *Flight, r io.Reader, t float32) error {
	body, err := readStationarySFXBody(r)
	if err != nil {
		return err
	}
	f.AppendGeneralEvent(GeneralEvent{
		Kind: GeneralEventStationarySFX, Start: t, Stop: t + body.TTL,
		EventKind: body.Kind, X: body.X, Y: body.Y, Z: body.Z, Scale: body.Scale,
	})
	return nil
}

func applyMovingSFX(f *Flight, r io.Reader, t float32) error {
	body, err := readMovingSFXBody(r)
	if err != nil {
		return err
	}
	f.AppendGeneralEvent(GeneralEvent{
		Kind: GeneralEventMovingSFX, Start: t, Stop: t + body.TTL,
		EventKind: body.Kind, User: body.User, Flags: body.Flags,
		X: body.X, Y: body.Y, Z: body.Z, Dx: body.Dx, Dy: body.Dy, Dz: body.Dz,
		Scale: body.Scale,
	})
	return nil
}

func applySwitch(f *Flight, r io.Reader, t float32) error {
	body, err := readSwitchBody(r)
	if err != nil {
		return err
	}
	f.AppendEntityEvent(t, body.UID, EntityEvent{
		Time: t, Kind: EventKindSwitch,
		SwitchNumber: body.SwitchNumber, SwitchNewValue: body.New, SwitchPreviousValue: body.Previous,
	})
	return nil
}

func applyDof(f *Flight, r io.Reader, t float32) error {
	body, err := readDofBody(r)
	if err != nil {
		return err
	}
	f.AppendEntityEvent(t, body.UID, EntityEvent{
		Time: t, Kind: EventKindDof,
		DofNumber: body.DofNumber, DofNewValue: body.New, DofPreviousValue: body.Previous,
	})
	return nil
}

func applyFeatureStatus(f *Flight, r io.Reader, log xlog.Logger, t float32) error {
	body, err := readFeatureStatusBody(r)
	if err != nil {
		return err
	}
	f.ApplyFeatureStatus(log, t, body.UID, body.New, body.Previous)
	return nil
}

func applyCallsignList(f *Flight, r io.Reader, log xlog.Logger) error {
	count, err := primitives.ReadI32(r)
	if err != nil {
		return err
	}
	if count < 0 {
		return ErrNegativeCount
	}
	array := make([]CallsignRecord, count)
	for i := range array {
		if array[i], err = readCallsignRecord(r); err != nil {
			return err
		}
	}
	f.ApplyCallsigns(log, array)
	return nil
}

func logParseError(log xlog.Logger, err error) {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, primitives.ErrShortRead) {
		log.Warn("reached end of file in the middle of a record", xlog.F("error", err))
		return
	}
	log.Warn("error reading flight", xlog.F("error", err))
}
