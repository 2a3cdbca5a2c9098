package node

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgbdash/dashbus/internal/canbus"
	"github.com/mgbdash/dashbus/internal/canbus/canbustest"
	"github.com/mgbdash/dashbus/internal/canid"
	"github.com/mgbdash/dashbus/internal/canlog"
	"github.com/mgbdash/dashbus/internal/heartbeat"
	"github.com/mgbdash/dashbus/internal/telemetry"
)

type fixture struct {
	ctrl *canbustest.Controller
	bus  *canbus.Bus
	node *Node
	sink *bytes.Buffer
}

func newFixture(t *testing.T, role canlog.Role, roleName heartbeat.RoleName) *fixture {
	t.Helper()

	ctrl := &canbustest.Controller{}
	bus := canbus.New(ctrl)
	if err := bus.Init(canbus.Config{Bitrate: canid.DefaultBitrate}); err != nil {
		t.Fatalf("init: %v", err)
	}

	var sink bytes.Buffer
	log := canlog.New(bus, role, zerolog.New(&sink))
	beacon := heartbeat.NewBeacon(bus, roleName)
	n := New(bus, beacon, log, Config{Role: role})
	return &fixture{ctrl: ctrl, bus: bus, node: n, sink: &sink}
}

func countID(ids []uint32, want uint32) int {
	n := 0
	for _, id := range ids {
		if id == want {
			n++
		}
	}
	return n
}

func TestStepTicksHeartbeat(t *testing.T) {
	fx := newFixture(t, canlog.RoleSpeed, heartbeat.RoleSpeed)

	now := time.Now()
	fx.node.Step(now)
	fx.node.Step(now.Add(5 * time.Millisecond))
	fx.node.Step(now.Add(heartbeat.Interval + time.Millisecond))

	if got := countID(fx.ctrl.SentIDs(), canid.Heartbeat); got != 2 {
		t.Fatalf("heartbeat frames = %d, want 2", got)
	}
}

func TestStepDispatchesTelemetry(t *testing.T) {
	fx := newFixture(t, canlog.RoleDash, heartbeat.RoleDash)

	var got []telemetry.Message
	fx.node.OnTelemetry(func(m telemetry.Message) { got = append(got, m) })

	speed := telemetry.EncodeBodySpeed(42.5)
	fx.ctrl.Enqueue(canbus.Frame{ID: canid.BodySpeed, Data: speed, DLC: 8})
	fx.ctrl.Enqueue(canbus.Frame{ID: 0x123, DLC: 8}) // unknown, dropped

	fx.node.Step(time.Now())

	if len(got) != 1 {
		t.Fatalf("dispatched %d messages, want 1", len(got))
	}
	sp, ok := got[0].(telemetry.BodySpeed)
	if !ok {
		t.Fatalf("message type = %T, want BodySpeed", got[0])
	}
	if sp.MPH != 42.5 {
		t.Fatalf("MPH = %v, want 42.5", sp.MPH)
	}
}

func TestSelfTestTargeting(t *testing.T) {
	cases := []struct {
		name   string
		target uint8
		want   int // log event frames on the bus
	}{
		{"addressed to role", uint8(canlog.RoleGPS), 2},
		{"broadcast", canid.SelfTestTargetAll, 2},
		{"other role", uint8(canlog.RoleFuel), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(t, canlog.RoleGPS, heartbeat.RoleGPS)

			payload := telemetry.EncodeSelfTest(tc.target)
			fx.ctrl.Enqueue(canbus.Frame{ID: canid.SelfTest, Data: payload, DLC: 8})
			fx.node.Step(time.Now())

			if got := countID(fx.ctrl.SentIDs(), canid.Log); got != tc.want {
				t.Fatalf("log frames = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSelfTestNotForwardedToHandler(t *testing.T) {
	fx := newFixture(t, canlog.RoleBody, heartbeat.RoleBody)

	called := false
	fx.node.OnTelemetry(func(telemetry.Message) { called = true })

	payload := telemetry.EncodeSelfTest(canid.SelfTestTargetAll)
	fx.ctrl.Enqueue(canbus.Frame{ID: canid.SelfTest, Data: payload, DLC: 8})
	fx.node.Step(time.Now())

	if called {
		t.Fatal("self-test frame reached the telemetry handler")
	}
}

func TestBusOffTransitionLogging(t *testing.T) {
	fx := newFixture(t, canlog.RoleAmps, heartbeat.RoleAmps)

	now := time.Now()
	fx.node.Step(now)
	if fx.sink.Len() != 0 {
		t.Fatalf("unexpected fallback output on healthy bus: %q", fx.sink.String())
	}

	fx.ctrl.State = canbus.StateBusOff
	fx.node.Step(now.Add(10 * time.Millisecond))

	// The transport cannot carry the event, so it lands on the fallback.
	if !bytes.Contains(fx.sink.Bytes(), []byte("BUS_OFF")) {
		t.Fatalf("fallback missing BUS_OFF: %q", fx.sink.String())
	}

	// A repeated bus-off iteration must not log again.
	fx.sink.Reset()
	fx.node.Step(now.Add(20 * time.Millisecond))
	if fx.sink.Len() != 0 {
		t.Fatalf("BUS_OFF logged twice: %q", fx.sink.String())
	}

	fx.ctrl.State = canbus.StateRunning
	fx.node.Step(now.Add(time.Second))
	if got := countID(fx.ctrl.SentIDs(), canid.Log); got == 0 {
		t.Fatal("BUS_RECOVERED not transmitted after recovery")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	fx := newFixture(t, canlog.RoleTemp, heartbeat.RoleTemp)
	fx.node.cfg.LoopInterval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fx.node.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not exit on cancellation")
	}
}
