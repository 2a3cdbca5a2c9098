package telemetry

import (
	"encoding/binary"
	"math"

	"github.com/mgbdash/dashbus/internal/canid"
)

// Synthesized body-controller messages. Unlike the upstream big-endian
// bit windows, multi-byte numerics originated by this system travel in
// the host's little-endian layout. The asymmetry is part of the wire
// contract; mixing the conventions silently corrupts values.

// BodyState is the decoded 0x710 flag bitfield.
type BodyState struct {
	KeyOn     bool
	Brake     bool
	Regen     bool
	Fan       bool
	Reverse   bool
	LeftTurn  bool
	RightTurn bool
	Hazard    bool
}

func decodeBodyState(d [8]byte) BodyState {
	return BodyState{
		KeyOn:     d[0]&canid.FlagKeyOn != 0,
		Brake:     d[0]&canid.FlagBrake != 0,
		Regen:     d[0]&canid.FlagRegen != 0,
		Fan:       d[0]&canid.FlagFan != 0,
		Reverse:   d[0]&canid.FlagReverse != 0,
		LeftTurn:  d[0]&canid.FlagLeftTurn != 0,
		RightTurn: d[0]&canid.FlagRightTurn != 0,
		Hazard:    d[0]&canid.FlagHazard != 0,
	}
}

// Flags packs the state back into the byte-0 bitfield.
func (s BodyState) Flags() uint8 {
	var f uint8
	set := func(on bool, bit uint8) {
		if on {
			f |= bit
		}
	}
	set(s.KeyOn, canid.FlagKeyOn)
	set(s.Brake, canid.FlagBrake)
	set(s.Regen, canid.FlagRegen)
	set(s.Fan, canid.FlagFan)
	set(s.Reverse, canid.FlagReverse)
	set(s.LeftTurn, canid.FlagLeftTurn)
	set(s.RightTurn, canid.FlagRightTurn)
	set(s.Hazard, canid.FlagHazard)
	return f
}

// EncodeBodyState builds the 0x710 payload.
func EncodeBodyState(s BodyState) [8]byte {
	return [8]byte{s.Flags()}
}

// BodySpeed is the decoded 0x711 payload.
type BodySpeed struct {
	MPH float64
}

func decodeBodySpeed(d [8]byte) BodySpeed {
	return BodySpeed{MPH: math.Float64frombits(binary.LittleEndian.Uint64(d[:]))}
}

// EncodeBodySpeed builds the 0x711 payload: a little-endian float64.
func EncodeBodySpeed(mph float64) [8]byte {
	var d [8]byte
	binary.LittleEndian.PutUint64(d[:], math.Float64bits(mph))
	return d
}

// BodyGear is the decoded 0x712 payload. Gear uses the canid gear
// codes; 0xFF means the estimator has no answer.
type BodyGear struct {
	Gear    uint8
	Reverse bool
}

func decodeBodyGear(d [8]byte) BodyGear {
	return BodyGear{Gear: d[0], Reverse: d[1] != 0}
}

// EncodeBodyGear builds the 0x712 payload.
func EncodeBodyGear(gear uint8, reverse bool) [8]byte {
	var d [8]byte
	d[0] = gear
	if reverse {
		d[1] = 1
	}
	return d
}

// BodyOdometer is the decoded 0x713 payload.
type BodyOdometer struct {
	Miles uint32
}

func decodeBodyOdometer(d [8]byte) BodyOdometer {
	return BodyOdometer{Miles: binary.LittleEndian.Uint32(d[0:4])}
}

// EncodeBodyOdometer builds the 0x713 payload: a little-endian uint32.
func EncodeBodyOdometer(miles uint32) [8]byte {
	var d [8]byte
	binary.LittleEndian.PutUint32(d[0:4], miles)
	return d
}

// SelfTest is the decoded 0x730 trigger. Target is a role code or
// canid.SelfTestTargetAll.
type SelfTest struct {
	Target uint8
}

// EncodeSelfTest builds the 0x730 payload.
func EncodeSelfTest(target uint8) [8]byte {
	return [8]byte{target}
}
