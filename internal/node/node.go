// Package node runs the cooperative control loop that ties the frame
// transport, liveness protocol, diagnostic logging, and telemetry
// decoding together for one module on the bus.
package node

import (
	"context"
	"time"

	"github.com/mgbdash/dashbus/internal/canbus"
	"github.com/mgbdash/dashbus/internal/canid"
	"github.com/mgbdash/dashbus/internal/canlog"
	"github.com/mgbdash/dashbus/internal/heartbeat"
	"github.com/mgbdash/dashbus/internal/telemetry"
)

// defaultLoopInterval paces the super-loop. Each iteration checks bus
// health, drains the receive queue, and ticks the heartbeat.
const defaultLoopInterval = 10 * time.Millisecond

// Handler receives every decoded telemetry message seen on the bus.
type Handler func(telemetry.Message)

// Config parameterizes a node.
type Config struct {
	Role         canlog.Role
	LoopInterval time.Duration
}

// Node owns all transport state. Every method runs on the Run
// goroutine; nothing here is safe for concurrent use, matching the
// single-owner contract of the transport.
type Node struct {
	bus    *canbus.Bus
	beacon *heartbeat.Beacon
	log    *canlog.Logger
	cfg    Config

	handler   Handler
	wasBusOff bool
}

// New assembles a node from its already-initialized collaborators.
func New(bus *canbus.Bus, beacon *heartbeat.Beacon, log *canlog.Logger, cfg Config) *Node {
	if cfg.LoopInterval <= 0 {
		cfg.LoopInterval = defaultLoopInterval
	}
	return &Node{bus: bus, beacon: beacon, log: log, cfg: cfg}
}

// OnTelemetry registers the decoded-message handler. Call before Run.
func (n *Node) OnTelemetry(h Handler) { n.handler = h }

// Run drives the control loop until the context is cancelled.
func (n *Node) Run(ctx context.Context) error {
	n.log.LogContext(canlog.LevelInfo, canlog.EventBootComplete, uint32(time.Now().Unix()))

	ticker := time.NewTicker(n.cfg.LoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n.Step(now)
		}
	}
}

// Step executes one loop iteration. Exported so tests and embedders can
// drive the loop with their own clock.
func (n *Node) Step(now time.Time) {
	n.bus.CheckHealth(now)

	// Health transitions are log events themselves; during bus-off the
	// logger's fallback path keeps them visible.
	if off := n.bus.BusOff(); off != n.wasBusOff {
		if off {
			n.log.Log(canlog.LevelError, canlog.EventBusOff)
		} else {
			n.log.Log(canlog.LevelInfo, canlog.EventBusRecovered)
		}
		n.wasBusOff = off
	}

	for {
		f, ok := n.bus.Receive()
		if !ok {
			break
		}
		n.dispatch(f)
	}

	n.beacon.Tick(now)
}

func (n *Node) dispatch(f canbus.Frame) {
	if f.ID == canid.SelfTest {
		target := f.Data[0]
		if target == canid.SelfTestTargetAll || target == uint8(n.cfg.Role) {
			n.log.Log(canlog.LevelInfo, canlog.EventSelfTestStart)
			n.log.Log(canlog.LevelInfo, canlog.EventSelfTestPass)
		}
		return
	}

	msg, ok := telemetry.Decode(f.ID, f.Payload())
	if !ok {
		return
	}
	if n.handler != nil {
		n.handler(msg)
	}
}
