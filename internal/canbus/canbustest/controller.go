// Package canbustest provides an in-memory Controller for exercising
// the transport and the protocols built on top of it.
package canbustest

import (
	"time"

	"github.com/mgbdash/dashbus/internal/canbus"
)

// Controller is a scriptable in-memory frame controller. Zero value is
// a healthy controller that accepts every frame.
type Controller struct {
	InstallErr  error
	StartErr    error
	TransmitErr error
	RecoverErr  error

	// State is returned by Status until changed by the test.
	State canbus.BusState
	// TxErrDelta and RxErrDelta are reported by the next Status call
	// only, matching the since-last-query contract.
	TxErrDelta uint32
	RxErrDelta uint32

	Installed    bool
	Started      bool
	InstalledCfg canbus.Config
	Sent         []canbus.Frame
	RecoverCalls int

	queue []canbus.Frame
}

var _ canbus.Controller = (*Controller)(nil)

func (c *Controller) Install(cfg canbus.Config) error {
	if c.InstallErr != nil {
		return c.InstallErr
	}
	c.Installed = true
	c.InstalledCfg = cfg
	return nil
}

func (c *Controller) Start() error {
	if c.StartErr != nil {
		return c.StartErr
	}
	c.Started = true
	c.State = canbus.StateRunning
	return nil
}

func (c *Controller) Transmit(f canbus.Frame, timeout time.Duration) error {
	if c.TransmitErr != nil {
		return c.TransmitErr
	}
	c.Sent = append(c.Sent, f)
	return nil
}

func (c *Controller) Receive() (canbus.Frame, bool) {
	if len(c.queue) == 0 {
		return canbus.Frame{}, false
	}
	f := c.queue[0]
	c.queue = c.queue[1:]
	return f, true
}

func (c *Controller) Status() canbus.Status {
	st := canbus.Status{State: c.State, TxErrors: c.TxErrDelta, RxErrors: c.RxErrDelta}
	c.TxErrDelta, c.RxErrDelta = 0, 0
	return st
}

func (c *Controller) Recover() error {
	c.RecoverCalls++
	return c.RecoverErr
}

// Enqueue feeds an inbound frame to the next Receive call.
func (c *Controller) Enqueue(f canbus.Frame) {
	c.queue = append(c.queue, f)
}

// SentIDs returns the arbitration identifiers of every transmitted
// frame, in call order.
func (c *Controller) SentIDs() []uint32 {
	ids := make([]uint32, 0, len(c.Sent))
	for _, f := range c.Sent {
		ids = append(ids, f.ID)
	}
	return ids
}
