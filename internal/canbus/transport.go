package canbus

import (
	"fmt"
	"math"
	"time"

	"github.com/mgbdash/dashbus/internal/canid"
)

const (
	// transmitWait bounds the controller enqueue inside Transmit.
	transmitWait = 10 * time.Millisecond
	// recoveryBackoff spaces bus-off recovery attempts so a dead bus
	// is not hot-looped through the driver.
	recoveryBackoff = 500 * time.Millisecond
)

// Bus is the fault-aware transport wrapper around a Controller. All
// methods must be called from the single goroutine that owns the node's
// control loop.
type Bus struct {
	ctrl      Controller
	installed bool
	busOff    bool

	txErrors uint32
	rxErrors uint32

	lastRecovery time.Time
}

// New wraps a controller. The bus is unusable until Init succeeds.
func New(ctrl Controller) *Bus {
	return &Bus{ctrl: ctrl}
}

// Init installs and starts the controller. Unrecognized bitrates fall
// back to the default 500 kbps rather than failing.
func (b *Bus) Init(cfg Config) error {
	switch cfg.Bitrate {
	case 500000, 250000:
	default:
		cfg.Bitrate = canid.DefaultBitrate
	}

	if err := b.ctrl.Install(cfg); err != nil {
		return fmt.Errorf("canbus: install: %w", err)
	}
	if err := b.ctrl.Start(); err != nil {
		return fmt.Errorf("canbus: start: %w", err)
	}

	b.installed = true
	b.busOff = false
	return nil
}

// Transmit sends a frame unconditionally, without the custom-range
// guard. Fails if the bus is not initialized, is bus-off, or the
// controller cannot enqueue the frame within the bounded wait.
func (b *Bus) Transmit(id uint32, data []byte) error {
	if !b.installed {
		return ErrNotInstalled
	}
	if b.busOff {
		return ErrBusOff
	}
	if id > canid.MaxID {
		return ErrInvalidID
	}
	if len(data) > 8 {
		return ErrPayloadTooLong
	}

	f := Frame{ID: id, DLC: uint8(len(data))}
	copy(f.Data[:], data)

	if err := b.ctrl.Transmit(f, transmitWait); err != nil {
		b.txErrors = satAdd(b.txErrors, 1)
		return fmt.Errorf("%w: %v", ErrTransmitTimeout, err)
	}
	return nil
}

// TransmitGuarded sends a frame after rejecting, without touching the
// controller, any identifier outside the custom range. The guard keeps
// a node from ever colliding with reserved vehicle-bus identifiers.
func (b *Bus) TransmitGuarded(id uint32, data []byte) error {
	if id < canid.CustomIDMin || id > canid.CustomIDMax {
		return fmt.Errorf("%w: 0x%03X", ErrOutOfRange, id)
	}
	return b.Transmit(id, data)
}

// Receive returns at most one buffered inbound frame. Callers drain the
// queue by looping until ok is false. Never blocks.
func (b *Bus) Receive() (Frame, bool) {
	if !b.installed || b.busOff {
		return Frame{}, false
	}
	return b.ctrl.Receive()
}

// CheckHealth reads controller status and drives the bus-off state
// machine. Call once per control-loop iteration; idempotent when the
// bus is healthy. Recovery attempts are spaced by the backoff.
func (b *Bus) CheckHealth(now time.Time) {
	if !b.installed {
		return
	}

	st := b.ctrl.Status()
	switch {
	case st.State == StateBusOff:
		b.busOff = true
		if b.lastRecovery.IsZero() || now.Sub(b.lastRecovery) > recoveryBackoff {
			b.lastRecovery = now
			_ = b.ctrl.Recover()
		}
	case st.State == StateRunning && b.busOff:
		b.busOff = false
	}

	b.txErrors = satAdd(b.txErrors, st.TxErrors)
	b.rxErrors = satAdd(b.rxErrors, st.RxErrors)
}

// Available reports whether the transport can currently carry frames.
func (b *Bus) Available() bool {
	return b.installed && !b.busOff
}

// BusOff reports whether the controller is in the bus-off state.
func (b *Bus) BusOff() bool { return b.busOff }

// TxErrorCount returns the cumulative transmit error count.
func (b *Bus) TxErrorCount() uint32 { return b.txErrors }

// RxErrorCount returns the cumulative receive error count.
func (b *Bus) RxErrorCount() uint32 { return b.rxErrors }

// satAdd saturates at the maximum instead of wrapping into a
// misleadingly small count.
func satAdd(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}
