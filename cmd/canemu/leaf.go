package main

import "encoding/binary"

// packWindow is the inverse of the codec's big-endian window read: the
// raw value occupies the top width bits of the two-byte span.
func packWindow(raw uint16, width uint) (hi, lo byte) {
	v := raw << (16 - width)
	return byte(v >> 8), byte(v)
}

// leafState holds the drivetrain values the emulator plays back.
type leafState struct {
	RPM           int16
	TorqueNm      float64
	VoltageV      float64
	CurrentA      float64
	SOCPercent    uint8
	ChargerKW     float64
	MainRelay     bool
	InverterTempC float64
	PreciseSOC    float64
	GIDs          uint16
	SOHPercent    uint8
	BatteryTempC  int
}

func defaultLeafState() leafState {
	return leafState{
		RPM:           1200,
		TorqueNm:      42,
		VoltageV:      364.5,
		CurrentA:      -18.5,
		SOCPercent:    80,
		ChargerKW:     0,
		MainRelay:     true,
		InverterTempC: 31,
		PreciseSOC:    80.25,
		GIDs:          220,
		SOHPercent:    91,
		BatteryTempC:  22,
	}
}

func (s leafState) motorFrame() [8]byte {
	var d [8]byte
	binary.BigEndian.PutUint16(d[1:3], uint16(s.RPM))
	d[3], d[4] = packWindow(uint16((s.TorqueNm+400)*2), 10)
	return d
}

func (s leafState) batteryFrame() [8]byte {
	var d [8]byte
	d[0], d[1] = packWindow(uint16(s.VoltageV*2), 10)
	raw := int32(s.CurrentA * 2)
	if raw < 0 {
		raw += 1 << 11
	}
	d[2], d[3] = packWindow(uint16(raw), 11)
	d[4] = s.SOCPercent
	return d
}

func (s leafState) chargerFrame() [8]byte {
	var d [8]byte
	d[0], d[1] = packWindow(uint16(s.ChargerKW*4), 10)
	return d
}

func (s leafState) vcmFrame() [8]byte {
	var d [8]byte
	if s.MainRelay {
		d[4] = 1
	}
	return d
}

func (s leafState) inverterTempsFrame() [8]byte {
	var d [8]byte
	raw := byte(s.InverterTempC * 2)
	d[0], d[1], d[2] = raw, raw, raw
	return d
}

func (s leafState) preciseSOCFrame() [8]byte {
	var d [8]byte
	binary.BigEndian.PutUint16(d[0:2], uint16(s.PreciseSOC*100+0.5))
	return d
}

func (s leafState) healthFrame() [8]byte {
	var d [8]byte
	d[0], d[1] = packWindow(s.GIDs, 10)
	d[4] = s.SOHPercent << 1
	return d
}

func (s leafState) batteryTempFrame() [8]byte {
	var d [8]byte
	d[0] = byte(s.BatteryTempC + 40)
	return d
}
