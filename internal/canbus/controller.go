package canbus

import "time"

// BusState is the controller's view of the physical bus.
type BusState uint8

const (
	StateStopped BusState = iota
	StateRunning
	StateBusOff
)

func (s BusState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateBusOff:
		return "bus-off"
	default:
		return "unknown"
	}
}

// Status is a point-in-time controller health report. TxErrors and
// RxErrors report errors observed since the previous Status query, so
// the transport can accumulate them without double counting.
type Status struct {
	State    BusState
	TxErrors uint32
	RxErrors uint32
}

// Config carries the line assignment and bitrate handed to the
// controller at install time. Controllers that have no notion of pins
// (network or serial adapters) ignore TXLine and RXLine.
type Config struct {
	TXLine  int
	RXLine  int
	Bitrate uint32
}

// Controller abstracts the hardware frame controller. Implementations
// must make Receive non-blocking and bound Transmit by the supplied
// timeout. The transport accesses a controller from a single goroutine;
// implementations that run internal readers synchronize themselves.
type Controller interface {
	// Install configures the controller. Called once, before Start.
	Install(cfg Config) error
	// Start brings the controller onto the bus.
	Start() error
	// Transmit enqueues one frame, waiting at most timeout.
	Transmit(f Frame, timeout time.Duration) error
	// Receive returns one buffered inbound frame, if any.
	Receive() (Frame, bool)
	// Status reports bus state and error deltas since the last call.
	Status() Status
	// Recover asks the controller to leave bus-off.
	Recover() error
}
