package telemetry

import (
	"encoding/binary"
	"math"

	"github.com/mgbdash/dashbus/internal/canid"
)

// GPSKind names which of the float64 GPS broadcasts a GPSValue came
// from.
type GPSKind uint8

const (
	GPSKindSpeed GPSKind = iota
	GPSKindTime
	GPSKindDate
	GPSKindLatitude
	GPSKindLongitude
	GPSKindElevation
)

func (k GPSKind) String() string {
	switch k {
	case GPSKindSpeed:
		return "speed_mph"
	case GPSKindTime:
		return "time_utc_s"
	case GPSKindDate:
		return "date_days"
	case GPSKindLatitude:
		return "latitude"
	case GPSKindLongitude:
		return "longitude"
	case GPSKindElevation:
		return "elevation_m"
	default:
		return "unknown"
	}
}

// GPSValue is one decoded float64 GPS broadcast (0x720-0x725).
type GPSValue struct {
	Kind  GPSKind
	Value float64
}

func decodeGPSValue(id uint32, d [8]byte) GPSValue {
	v := math.Float64frombits(binary.LittleEndian.Uint64(d[:]))
	switch id {
	case canid.GPSTime:
		return GPSValue{Kind: GPSKindTime, Value: v}
	case canid.GPSDate:
		return GPSValue{Kind: GPSKindDate, Value: v}
	case canid.GPSLatitude:
		return GPSValue{Kind: GPSKindLatitude, Value: v}
	case canid.GPSLongitude:
		return GPSValue{Kind: GPSKindLongitude, Value: v}
	case canid.GPSElevation:
		return GPSValue{Kind: GPSKindElevation, Value: v}
	default:
		return GPSValue{Kind: GPSKindSpeed, Value: v}
	}
}

// EncodeGPSValue builds a 0x720-0x725 payload: a little-endian float64.
func EncodeGPSValue(v float64) [8]byte {
	var d [8]byte
	binary.LittleEndian.PutUint64(d[:], math.Float64bits(v))
	return d
}

// AmbientLight is the decoded 0x726 payload.
type AmbientLight struct {
	Category uint8
}

// Name returns the category's human-readable label.
func (a AmbientLight) Name() string {
	switch a.Category {
	case canid.AmbientDaylight:
		return "DAYLIGHT"
	case canid.AmbientEarlyTwilight:
		return "EARLY_TWILIGHT"
	case canid.AmbientLateTwilight:
		return "LATE_TWILIGHT"
	case canid.AmbientDarkness:
		return "DARKNESS"
	default:
		return "UNKNOWN"
	}
}

// EncodeAmbientLight builds the 0x726 payload.
func EncodeAmbientLight(category uint8) [8]byte {
	return [8]byte{category}
}

// UTCOffset is the decoded 0x727 payload.
type UTCOffset struct {
	Minutes int16
}

func decodeUTCOffset(d [8]byte) UTCOffset {
	return UTCOffset{Minutes: int16(binary.LittleEndian.Uint16(d[0:2]))}
}

// EncodeUTCOffset builds the 0x727 payload: a little-endian int16.
func EncodeUTCOffset(minutes int16) [8]byte {
	var d [8]byte
	binary.LittleEndian.PutUint16(d[0:2], uint16(minutes))
	return d
}
