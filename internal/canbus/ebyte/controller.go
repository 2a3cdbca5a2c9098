package ebyte

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/mgbdash/dashbus/internal/canbus"
)

const (
	dialTimeout = 3 * time.Second
	rxQueueLen  = 32
)

// Controller drives a CAN-Ethernet adapter over one TCP connection.
// The adapter has no pins and no bitrate command; both are fixed on the
// device, so Install only records the config. A lost connection maps to
// bus-off and Recover redials.
type Controller struct {
	addr string

	mu     sync.Mutex
	conn   net.Conn
	state  canbus.BusState
	rxErrs uint32
	txErrs uint32

	rx   chan canbus.Frame
	done chan struct{}
}

var _ canbus.Controller = (*Controller)(nil)

// NewController returns a controller for the adapter at addr
// (host:port). Nothing is dialed until Start.
func NewController(addr string) *Controller {
	return &Controller{
		addr:  addr,
		state: canbus.StateStopped,
		rx:    make(chan canbus.Frame, rxQueueLen),
	}
}

func (c *Controller) Install(cfg canbus.Config) error {
	if c.addr == "" {
		return errors.New("ebyte: adapter address required")
	}
	return nil
}

func (c *Controller) Start() error {
	return c.dial()
}

func (c *Controller) dial() error {
	conn, err := net.DialTimeout("tcp", c.addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("ebyte: dial %s: %w", c.addr, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.state = canbus.StateRunning
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go c.readLoop(conn, done)
	return nil
}

// readLoop shovels adapter frames into the bounded receive queue.
// Frames arriving while the queue is full are dropped and counted.
func (c *Controller) readLoop(conn net.Conn, done chan struct{}) {
	buf := make([]byte, wireSize)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			c.markLost(conn)
			return
		}
		f, err := decodeWire(buf)
		if err != nil {
			c.mu.Lock()
			c.rxErrs++
			c.mu.Unlock()
			continue
		}
		select {
		case c.rx <- f:
		case <-done:
			return
		default:
			c.mu.Lock()
			c.rxErrs++
			c.mu.Unlock()
		}
	}
}

// markLost flags the connection as dead if it is still the current one.
func (c *Controller) markLost(conn net.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn {
		return
	}
	c.conn.Close()
	c.conn = nil
	c.state = canbus.StateBusOff
	close(c.done)
}

func (c *Controller) Transmit(f canbus.Frame, timeout time.Duration) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.New("ebyte: not connected")
	}

	raw, err := encodeWire(f)
	if err != nil {
		return err
	}

	_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	if _, err := conn.Write(raw); err != nil {
		c.mu.Lock()
		c.txErrs++
		c.mu.Unlock()
		return fmt.Errorf("ebyte: write: %w", err)
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
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.dial()
}

// Close tears down the connection. Safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.state = canbus.StateStopped
	close(c.done)
	return err
}
