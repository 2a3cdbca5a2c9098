// Package slcan implements a canbus.Controller for serial adapters
// speaking the ASCII SLCAN (Lawicel) protocol.
package slcan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mgbdash/dashbus/internal/canbus"
)

// encodeFrame renders one standard data frame as an SLCAN transmit
// command, e.g. "t70085555..." terminated by carriage return.
func encodeFrame(f canbus.Frame) string {
	var b strings.Builder
	b.WriteByte('t')
	fmt.Fprintf(&b, "%03X", f.ID&0x7FF)
	b.WriteByte('0' + (f.DLC & 0x0F))
	for i := uint8(0); i < f.DLC && i < 8; i++ {
		fmt.Fprintf(&b, "%02X", f.Data[i])
	}
	b.WriteByte('\r')
	return b.String()
}

// parseFrame parses one SLCAN line (without the trailing CR). Only
// standard data frames are meaningful on this bus; anything else is an
// error the caller counts.
func parseFrame(line string) (canbus.Frame, error) {
	if len(line) < 5 || line[0] != 't' {
		return canbus.Frame{}, fmt.Errorf("slcan: not a standard data frame: %q", line)
	}

	id, err := strconv.ParseUint(line[1:4], 16, 32)
	if err != nil {
		return canbus.Frame{}, fmt.Errorf("slcan: bad identifier: %w", err)
	}
	dlc := line[4] - '0'
	if dlc > 8 {
		return canbus.Frame{}, fmt.Errorf("slcan: invalid DLC %d", dlc)
	}
	if len(line) != 5+2*int(dlc) {
		return canbus.Frame{}, fmt.Errorf("slcan: truncated data in %q", line)
	}

	f := canbus.Frame{ID: uint32(id), DLC: dlc}
	for i := 0; i < int(dlc); i++ {
		v, err := strconv.ParseUint(line[5+2*i:7+2*i], 16, 8)
		if err != nil {
			return canbus.Frame{}, fmt.Errorf("slcan: bad data byte: %w", err)
		}
		f.Data[i] = byte(v)
	}
	return f, nil
}

// bitrateCommand maps a bus speed to the adapter's setup command.
func bitrateCommand(bitrate uint32) string {
	switch bitrate {
	case 250000:
		return "S5\r"
	default:
		return "S6\r" // 500 kbps
	}
}
