package telemetry

// ResolveDisplay is the decoded 0x539 payload broadcast by the Resolve
// EV controller with its dash display state.
type ResolveDisplay struct {
	Gear             uint8 // byte 0, low nibble
	IgnitionOn       bool  // byte 0, bit 4
	SystemOn         bool  // byte 0, bit 5
	DisplayMaxCharge bool  // byte 0, bit 6
	RegenStrength    uint8 // byte 1
	SOCPercent       uint8 // byte 2
}

func decodeResolveDisplay(d [8]byte) ResolveDisplay {
	return ResolveDisplay{
		Gear:             d[0] & 0x0F,
		IgnitionOn:       d[0]&(1<<4) != 0,
		SystemOn:         d[0]&(1<<5) != 0,
		DisplayMaxCharge: d[0]&(1<<6) != 0,
		RegenStrength:    d[1],
		SOCPercent:       d[2],
	}
}
