package slcan

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/serial"

	"github.com/mgbdash/dashbus/internal/canbus"
)

const rxQueueLen = 32

// Controller drives an SLCAN adapter on a serial port. Install records
// the bitrate, Start opens the port and puts the channel on the bus
// (close, set bitrate, open). Port failure maps to bus-off; Recover
// reopens the port.
type Controller struct {
	device string
	baud   int

	bitrate uint32

	mu     sync.Mutex
	port   serial.Port
	state  canbus.BusState
	txErrs uint32
	rxErrs uint32

	rx   chan canbus.Frame
	done chan struct{}
}

var _ canbus.Controller = (*Controller)(nil)

// NewController returns a controller for the adapter on the named
// serial device.
func NewController(device string, baud int) *Controller {
	return &Controller{
		device: device,
		baud:   baud,
		state:  canbus.StateStopped,
		rx:     make(chan canbus.Frame, rxQueueLen),
	}
}

func (c *Controller) Install(cfg canbus.Config) error {
	if c.device == "" {
		return errors.New("slcan: serial device required")
	}
	c.bitrate = cfg.Bitrate
	return nil
}

func (c *Controller) Start() error {
	return c.open()
}

func (c *Controller) open() error {
	port, err := serial.Open(&serial.Config{
		Address:  c.device,
		BaudRate: c.baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  time.Second,
	})
	if err != nil {
		return fmt.Errorf("slcan: open %s: %w", c.device, err)
	}

	// Channel setup: close any stale session, set bitrate, open.
	for _, cmd := range []string{"C\r", bitrateCommand(c.bitrate), "O\r"} {
		if _, err := port.Write([]byte(cmd)); err != nil {
			port.Close()
			return fmt.Errorf("slcan: setup %q: %w", cmd, err)
		}
	}

	c.mu.Lock()
	c.port = port
	c.state = canbus.StateRunning
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go c.readLoop(port, done)
	return nil
}

// readLoop accumulates bytes into CR-terminated lines and queues parsed
// frames. Command echoes and errors from the adapter are counted, not
// surfaced.
func (c *Controller) readLoop(port serial.Port, done chan struct{}) {
	buf := make([]byte, 64)
	var line []byte
	for {
		select {
		case <-done:
			return
		default:
		}

		n, err := port.Read(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			c.markLost(port)
			return
		}

		for _, b := range buf[:n] {
			switch b {
			case '\r', '\n':
				if len(line) == 0 {
					continue
				}
				c.handleLine(string(line), done)
				line = line[:0]
			default:
				line = append(line, b)
			}
		}
	}
}

func (c *Controller) handleLine(line string, done chan struct{}) {
	f, err := parseFrame(line)
	if err != nil {
		// Adapter status bytes and non-standard frames land here.
		return
	}
	select {
	case c.rx <- f:
	case <-done:
	default:
		c.mu.Lock()
		c.rxErrs++
		c.mu.Unlock()
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func (c *Controller) markLost(port serial.Port) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.port != port {
		return
	}
	c.port.Close()
	c.port = nil
	c.state = canbus.StateBusOff
	close(c.done)
}

func (c *Controller) Transmit(f canbus.Frame, timeout time.Duration) error {
	c.mu.Lock()
	port := c.port
	c.mu.Unlock()
	if port == nil {
		return errors.New("slcan: port not open")
	}

	if _, err := port.Write([]byte(encodeFrame(f))); err != nil {
		c.mu.Lock()
		c.txErrs++
		c.mu.Unlock()
		return fmt.Errorf("slcan: write: %w", err)
	}
	return nil
}

func (c *Controller) Receive() (canbus.Frame, bool) {
	select {
	case f := <-c.rx:
		return f, true
	default:
		return canbus.Frame{}, false
	}
}

func (c *Controller) Status() canbus.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := canbus.Status{State: c.state, TxErrors: c.txErrs, RxErrors: c.rxErrs}
	c.txErrs, c.rxErrs = 0, 0
	return st
}

func (c *Controller) Recover() error {
	c.mu.Lock()
	if c.port != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.open()
}

// Close shuts the channel and releases the port.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.port == nil {
		return nil
	}
	_, _ = c.port.Write([]byte("C\r"))
	err := c.port.Close()
	c.port = nil
	c.state = canbus.StateStopped
	close(c.done)
	return err
}
