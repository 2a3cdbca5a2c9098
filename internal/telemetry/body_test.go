package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgbdash/dashbus/internal/canid"
)

func TestBodyStateRoundTrip(t *testing.T) {
	in := BodyState{KeyOn: true, Brake: true, Reverse: true, Hazard: true}
	payload := EncodeBodyState(in)

	assert.Equal(t, canid.FlagKeyOn|canid.FlagBrake|canid.FlagReverse|canid.FlagHazard, payload[0])

	msg, ok := Decode(canid.BodyState, payload[:])
	require.True(t, ok)
	assert.Equal(t, in, msg.(BodyState))
}

func TestBodySpeedLittleEndianLayout(t *testing.T) {
	payload := EncodeBodySpeed(1.0)
	// float64(1.0) = 0x3FF0000000000000, little-endian on the wire:
	// exponent bytes land at the end, not the front.
	assert.Equal(t, [8]byte{0, 0, 0, 0, 0, 0, 0xF0, 0x3F}, payload)

	msg, ok := Decode(canid.BodySpeed, payload[:])
	require.True(t, ok)
	assert.InDelta(t, 1.0, msg.(BodySpeed).MPH, 1e-12)
}

func TestBodySpeedRoundTrip(t *testing.T) {
	for _, mph := range []float64{0, 0.1, 37.5, 62.25, 120} {
		payload := EncodeBodySpeed(mph)
		msg, _ := Decode(canid.BodySpeed, payload[:])
		assert.InDelta(t, mph, msg.(BodySpeed).MPH, 1e-12)
	}
}

func TestBodyGearRoundTrip(t *testing.T) {
	payload := EncodeBodyGear(canid.Gear3, true)
	msg, _ := Decode(canid.BodyGear, payload[:])
	bg := msg.(BodyGear)
	assert.Equal(t, canid.Gear3, bg.Gear)
	assert.True(t, bg.Reverse)

	payload = EncodeBodyGear(canid.GearUnknown, false)
	msg, _ = Decode(canid.BodyGear, payload[:])
	assert.Equal(t, canid.GearUnknown, msg.(BodyGear).Gear)
}

func TestBodyOdometerLittleEndianLayout(t *testing.T) {
	payload := EncodeBodyOdometer(0x01020304)
	assert.Equal(t, [8]byte{0x04, 0x03, 0x02, 0x01, 0, 0, 0, 0}, payload)

	msg, _ := Decode(canid.BodyOdometer, payload[:])
	assert.Equal(t, uint32(0x01020304), msg.(BodyOdometer).Miles)
}

func TestGPSValueRoundTrip(t *testing.T) {
	payload := EncodeGPSValue(-74.0060)
	msg, ok := Decode(canid.GPSLongitude, payload[:])
	require.True(t, ok)
	gv := msg.(GPSValue)
	assert.Equal(t, GPSKindLongitude, gv.Kind)
	assert.InDelta(t, -74.0060, gv.Value, 1e-12)

	msg, _ = Decode(canid.GPSSpeed, payload[:])
	assert.Equal(t, GPSKindSpeed, msg.(GPSValue).Kind)
}

func TestUTCOffsetRoundTrip(t *testing.T) {
	for _, m := range []int16{0, 60, -300, -720} {
		payload := EncodeUTCOffset(m)
		msg, _ := Decode(canid.GPSUTCOffset, payload[:])
		assert.Equal(t, m, msg.(UTCOffset).Minutes)
	}
}

func TestAmbientLightNames(t *testing.T) {
	msg, _ := Decode(canid.GPSAmbientLight, []byte{canid.AmbientLateTwilight})
	al := msg.(AmbientLight)
	assert.Equal(t, "LATE_TWILIGHT", al.Name())

	assert.Equal(t, "UNKNOWN", AmbientLight{Category: 9}.Name())
}

func TestSelfTestDecode(t *testing.T) {
	msg, ok := Decode(canid.SelfTest, []byte{canid.SelfTestTargetAll})
	require.True(t, ok)
	assert.Equal(t, canid.SelfTestTargetAll, msg.(SelfTest).Target)
}
