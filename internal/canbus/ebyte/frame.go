// Package ebyte implements a canbus.Controller for EByte-style
// CAN-to-Ethernet adapters speaking a fixed 13-byte binary framing.
package ebyte

import (
	"encoding/binary"
	"fmt"

	"github.com/mgbdash/dashbus/internal/canbus"
	"github.com/mgbdash/dashbus/internal/canid"
)

// wireSize is the fixed size of one adapter frame on the TCP stream:
// 1 header byte, 4 identifier bytes, 8 data bytes.
const wireSize = 13

const (
	headerExtended = 0x80
	headerRemote   = 0x40
	headerDLCMask  = 0x0F
)

// encodeWire serializes a standard data frame into the adapter's
// 13-byte binary layout. The identifier travels big-endian.
func encodeWire(f canbus.Frame) ([]byte, error) {
	if f.DLC > 8 {
		return nil, fmt.Errorf("ebyte: invalid DLC %d", f.DLC)
	}
	buf := make([]byte, wireSize)
	buf[0] = f.DLC & headerDLCMask
	binary.BigEndian.PutUint32(buf[1:5], f.ID)
	copy(buf[5:], f.Data[:])
	return buf, nil
}

// decodeWire parses one 13-byte adapter frame. Extended and remote
// frames are foreign to this bus and reported as errors so the caller
// can count them.
func decodeWire(raw []byte) (canbus.Frame, error) {
	if len(raw) != wireSize {
		return canbus.Frame{}, fmt.Errorf("ebyte: invalid frame size %d", len(raw))
	}

	header := raw[0]
	if header&headerExtended != 0 {
		return canbus.Frame{}, fmt.Errorf("ebyte: unexpected extended frame")
	}
	if header&headerRemote != 0 {
		return canbus.Frame{}, fmt.Errorf("ebyte: unexpected remote frame")
	}

	f := canbus.Frame{DLC: header & headerDLCMask}
	if f.DLC > 8 {
		return canbus.Frame{}, fmt.Errorf("ebyte: invalid DLC %d", f.DLC)
	}
	f.ID = binary.BigEndian.Uint32(raw[1:5]) & canid.MaxID
	copy(f.Data[:], raw[5:])
	return f, nil
}
