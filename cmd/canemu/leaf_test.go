package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgbdash/dashbus/internal/canid"
	"github.com/mgbdash/dashbus/internal/telemetry"
)

// The emulator packs values the way the vehicle does; the codec must
// read them back exactly.
func TestLeafFramesDecode(t *testing.T) {
	s := leafState{
		RPM:           -350,
		TorqueNm:      -12.5,
		VoltageV:      364.5,
		CurrentA:      -18.5,
		SOCPercent:    73,
		ChargerKW:     6.5,
		MainRelay:     true,
		InverterTempC: 31.5,
		PreciseSOC:    73.42,
		GIDs:          220,
		SOHPercent:    91,
		BatteryTempC:  -5,
	}

	d := s.motorFrame()
	msg, ok := telemetry.Decode(canid.LeafMotorStatus, d[:])
	require.True(t, ok)
	motor := msg.(telemetry.MotorStatus)
	assert.Equal(t, int16(-350), motor.RPM)
	assert.InDelta(t, -12.5, motor.TorqueNm, 0.5)

	d = s.batteryFrame()
	msg, ok = telemetry.Decode(canid.LeafBatteryStatus, d[:])
	require.True(t, ok)
	batt := msg.(telemetry.BatteryStatus)
	assert.InDelta(t, 364.5, batt.VoltageV, 0.5)
	assert.InDelta(t, -18.5, batt.CurrentA, 0.5)
	assert.Equal(t, uint8(73), batt.SOCPercent)

	d = s.chargerFrame()
	msg, ok = telemetry.Decode(canid.LeafCharger, d[:])
	require.True(t, ok)
	assert.InDelta(t, 6.5, msg.(telemetry.ChargerStatus).ChargePowerKW, 0.25)

	d = s.vcmFrame()
	msg, ok = telemetry.Decode(canid.LeafVCM, d[:])
	require.True(t, ok)
	assert.True(t, msg.(telemetry.VCMStatus).MainRelayClosed)

	d = s.inverterTempsFrame()
	msg, ok = telemetry.Decode(canid.LeafInverterTemps, d[:])
	require.True(t, ok)
	assert.InDelta(t, 31.5, msg.(telemetry.InverterTemps).MotorTempC, 0.5)

	d = s.preciseSOCFrame()
	msg, ok = telemetry.Decode(canid.LeafSOCPrecise, d[:])
	require.True(t, ok)
	assert.InDelta(t, 73.42, msg.(telemetry.PreciseSOC).Percent, 0.01)

	d = s.healthFrame()
	msg, ok = telemetry.Decode(canid.LeafBatteryHealth, d[:])
	require.True(t, ok)
	health := msg.(telemetry.BatteryHealth)
	assert.Equal(t, uint16(220), health.GIDs)
	assert.Equal(t, uint8(91), health.SOHPercent)

	d = s.batteryTempFrame()
	msg, ok = telemetry.Decode(canid.LeafBatteryTemp, d[:])
	require.True(t, ok)
	assert.Equal(t, -5, msg.(telemetry.BatteryTemp).TempC)
}

func TestPackWindowInverse(t *testing.T) {
	cases := []struct {
		raw   uint16
		width uint
	}{
		{0, 10}, {1, 10}, {0x3FF, 10}, {729, 10},
		{0, 11}, {0x7FF, 11}, {2011, 11},
	}
	for _, tc := range cases {
		hi, lo := packWindow(tc.raw, tc.width)
		got := (uint16(hi)<<8 | uint16(lo)) >> (16 - tc.width)
		assert.Equal(t, tc.raw, got, "raw=%d width=%d", tc.raw, tc.width)
	}
}
