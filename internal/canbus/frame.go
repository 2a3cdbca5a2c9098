// Package canbus mediates all bus I/O for a node: transmit-range
// guarding, bus-off detection and recovery, and non-blocking receive.
// It is the only package that talks to the frame controller.
package canbus

// Frame is one classic CAN frame: an 11-bit arbitration identifier and
// up to 8 payload bytes.
type Frame struct {
	ID   uint32
	Data [8]byte
	DLC  uint8
}

// Payload returns the DLC-bounded slice of the frame's data bytes.
func (f Frame) Payload() []byte {
	n := f.DLC
	if n > 8 {
		n = 8
	}
	return f.Data[:n]
}
