// Package telemetry turns raw frame payloads into typed physical
// quantities and back. Decoding is pure and total: malformed upstream
// data yields out-of-range values, never an error. The package has no
// transport dependency.
package telemetry

import "github.com/mgbdash/dashbus/internal/canid"

// Message is the sealed set of decoded telemetry records. Consumers
// switch on the concrete type instead of raw arbitration identifiers.
type Message interface {
	isTelemetry()
}

func (MotorStatus) isTelemetry()    {}
func (BatteryStatus) isTelemetry()  {}
func (ChargerStatus) isTelemetry()  {}
func (VCMStatus) isTelemetry()      {}
func (InverterTemps) isTelemetry()  {}
func (PreciseSOC) isTelemetry()     {}
func (BatteryHealth) isTelemetry()  {}
func (BatteryTemp) isTelemetry()    {}
func (GenerationID) isTelemetry()   {}
func (ResolveDisplay) isTelemetry() {}
func (BodyState) isTelemetry()      {}
func (BodySpeed) isTelemetry()      {}
func (BodyGear) isTelemetry()       {}
func (BodyOdometer) isTelemetry()   {}
func (GPSValue) isTelemetry()       {}
func (AmbientLight) isTelemetry()   {}
func (UTCOffset) isTelemetry()      {}
func (SelfTest) isTelemetry()       {}

// Decode dispatches a payload to the decoder for its arbitration
// identifier. ok is false for identifiers with no defined layout.
// Payloads shorter than 8 bytes decode as if zero-padded.
func Decode(id uint32, data []byte) (Message, bool) {
	var d [8]byte
	copy(d[:], data)

	switch id {
	case canid.LeafMotorStatus:
		return decodeMotorStatus(d), true
	case canid.LeafBatteryStatus:
		return decodeBatteryStatus(d), true
	case canid.LeafCharger:
		return decodeChargerStatus(d), true
	case canid.LeafVCM:
		return decodeVCMStatus(d), true
	case canid.LeafInverterTemps:
		return decodeInverterTemps(d), true
	case canid.LeafSOCPrecise:
		return decodePreciseSOC(d), true
	case canid.LeafBatteryHealth:
		return decodeBatteryHealth(d), true
	case canid.LeafBatteryTemp:
		return decodeBatteryTemp(d), true
	case canid.LeafAZE0ID:
		return GenerationID{}, true
	case canid.ResolveDisplay:
		return decodeResolveDisplay(d), true
	case canid.BodyState:
		return decodeBodyState(d), true
	case canid.BodySpeed:
		return decodeBodySpeed(d), true
	case canid.BodyGear:
		return decodeBodyGear(d), true
	case canid.BodyOdometer:
		return decodeBodyOdometer(d), true
	case canid.GPSSpeed, canid.GPSTime, canid.GPSDate,
		canid.GPSLatitude, canid.GPSLongitude, canid.GPSElevation:
		return decodeGPSValue(id, d), true
	case canid.GPSAmbientLight:
		return AmbientLight{Category: d[0]}, true
	case canid.GPSUTCOffset:
		return decodeUTCOffset(d), true
	case canid.SelfTest:
		return SelfTest{Target: d[0]}, true
	default:
		return nil, false
	}
}
