package telemetry

import "encoding/binary"

// Leaf AZE0 (2013-2017) EV-CAN layouts. All multi-byte windows are
// big-endian per the upstream bus convention.

// MotorStatus is the decoded 0x1DA payload.
type MotorStatus struct {
	RPM      int16   // bytes 1-2, signed 16-bit
	TorqueNm float64 // bytes 3-4, upper 10 bits, raw*0.5-400
	FailSafe uint8   // byte 6, bits 2-3
}

func decodeMotorStatus(d [8]byte) MotorStatus {
	return MotorStatus{
		RPM:      int16(binary.BigEndian.Uint16(d[1:3])),
		TorqueNm: float64(window16(d[3], d[4], 10))*0.5 - 400,
		FailSafe: (d[6] >> 2) & 0x03,
	}
}

// BatteryStatus is the decoded 0x1DB payload. Positive current is
// discharge, negative is charge or regen.
type BatteryStatus struct {
	VoltageV   float64 // bytes 0-1, upper 10 bits, raw*0.5
	CurrentA   float64 // bytes 2-3, upper 11 bits, signed, raw*0.5
	SOCPercent uint8   // byte 4
}

func decodeBatteryStatus(d [8]byte) BatteryStatus {
	return BatteryStatus{
		VoltageV:   float64(window16(d[0], d[1], 10)) * 0.5,
		CurrentA:   float64(signExtend(window16(d[2], d[3], 11), 11)) * 0.5,
		SOCPercent: d[4],
	}
}

// ChargerStatus is the decoded 0x1DC payload.
type ChargerStatus struct {
	ChargePowerKW float64 // bytes 0-1, upper 10 bits, raw*0.25
}

func decodeChargerStatus(d [8]byte) ChargerStatus {
	return ChargerStatus{ChargePowerKW: float64(window16(d[0], d[1], 10)) * 0.25}
}

// VCMStatus is the decoded 0x390 payload.
type VCMStatus struct {
	MainRelayClosed bool // byte 4, bit 0
}

func decodeVCMStatus(d [8]byte) VCMStatus {
	return VCMStatus{MainRelayClosed: d[4]&0x01 != 0}
}

// InverterTemps is the decoded 0x55A payload. All temperatures are
// raw*0.5 degrees C.
type InverterTemps struct {
	MotorTempC    float64
	IGBTTempC     float64
	InverterTempC float64
}

func decodeInverterTemps(d [8]byte) InverterTemps {
	return InverterTemps{
		MotorTempC:    float64(d[0]) * 0.5,
		IGBTTempC:     float64(d[1]) * 0.5,
		InverterTempC: float64(d[2]) * 0.5,
	}
}

// PreciseSOC is the decoded 0x55B payload.
type PreciseSOC struct {
	Percent float64 // bytes 0-1, big-endian u16, raw*0.01
}

func decodePreciseSOC(d [8]byte) PreciseSOC {
	return PreciseSOC{Percent: float64(binary.BigEndian.Uint16(d[0:2])) * 0.01}
}

// BatteryHealth is the decoded 0x5BC payload.
type BatteryHealth struct {
	GIDs       uint16 // bytes 0-1, upper 10 bits
	SOHPercent uint8  // byte 4, bits 1-7
}

func decodeBatteryHealth(d [8]byte) BatteryHealth {
	return BatteryHealth{
		GIDs:       window16(d[0], d[1], 10),
		SOHPercent: (d[4] >> 1) & 0x7F,
	}
}

// BatteryTemp is the decoded 0x5C0 payload.
type BatteryTemp struct {
	TempC int // byte 0, signed 8-bit, raw-40
}

func decodeBatteryTemp(d [8]byte) BatteryTemp {
	return BatteryTemp{TempC: int(int8(d[0])) - 40}
}

// GenerationID marks the presence of 0x59E on the bus, which confirms
// an AZE0-generation drivetrain. The payload carries no fields.
type GenerationID struct{}
