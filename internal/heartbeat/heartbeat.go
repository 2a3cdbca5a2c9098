// Package heartbeat implements the periodic liveness broadcast every
// node emits on the shared bus.
package heartbeat

import (
	"time"

	"github.com/mgbdash/dashbus/internal/canbus"
	"github.com/mgbdash/dashbus/internal/canid"
)

// Interval is the broadcast cadence. Other nodes rely on it for
// staleness detection, so it is a protocol contract, not a tunable.
const Interval = 1000 * time.Millisecond

// Payload byte offsets.
const (
	offRole     = 0 // bytes 0-4: role name
	offCounter  = 5 // byte 5: rolling counter
	offErrFlags = 6 // byte 6: error flags bitfield
	offReserved = 7 // byte 7: reserved, always 0
)

// Beacon broadcasts one node's heartbeat. Not safe for concurrent use;
// it belongs to the single control-loop goroutine like the transport
// it writes to.
type Beacon struct {
	bus        *canbus.Bus
	role       RoleName
	counter    uint8
	errorFlags uint8
	last       time.Time
}

// NewBeacon creates a beacon for the given role. The first Tick
// transmits immediately; later ticks honor the interval.
func NewBeacon(bus *canbus.Bus, role RoleName) *Beacon {
	return &Beacon{bus: bus, role: role}
}

// SetErrorFlags updates the error bitfield carried in byte 6 of every
// subsequent broadcast.
func (b *Beacon) SetErrorFlags(flags uint8) { b.errorFlags = flags }

// Counter exposes the rolling counter, mostly for tests and
// diagnostics.
func (b *Beacon) Counter() uint8 { return b.counter }

// Tick broadcasts a heartbeat if the interval has elapsed. Transmission
// is best-effort: a failed send is not retried and not escalated, the
// next tick supersedes it.
func (b *Beacon) Tick(now time.Time) {
	if !b.last.IsZero() && now.Sub(b.last) < Interval {
		return
	}
	b.last = now

	var payload [8]byte
	copy(payload[offRole:offRole+5], b.role[:])
	payload[offCounter] = b.counter
	payload[offErrFlags] = b.errorFlags
	payload[offReserved] = 0

	_ = b.bus.TransmitGuarded(canid.Heartbeat, payload[:])
	b.counter++ // wraps at 255 by uint8 arithmetic
}

// Payload is a decoded heartbeat broadcast. Decoding lives with the
// consumer because the liveness protocol itself only encodes.
type Payload struct {
	Role       string
	Counter    uint8
	ErrorFlags uint8
}

// ParsePayload decodes a raw heartbeat payload. ok is false when the
// payload is shorter than the fixed 8 bytes.
func ParsePayload(data []byte) (Payload, bool) {
	if len(data) < 8 {
		return Payload{}, false
	}
	end := 5
	for end > 0 && data[end-1] == ' ' {
		end--
	}
	return Payload{
		Role:       string(data[:end]),
		Counter:    data[offCounter],
		ErrorFlags: data[offErrFlags],
	}, true
}
