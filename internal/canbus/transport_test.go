package canbus_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mgbdash/dashbus/internal/canbus"
	"github.com/mgbdash/dashbus/internal/canbus/canbustest"
)

func newReadyBus(t *testing.T) (*canbus.Bus, *canbustest.Controller) {
	t.Helper()
	ctrl := &canbustest.Controller{}
	bus := canbus.New(ctrl)
	if err := bus.Init(canbus.Config{Bitrate: 500000}); err != nil {
		t.Fatalf("init: %v", err)
	}
	return bus, ctrl
}

func TestTransmitGuardedRejectsOutsideCustomRange(t *testing.T) {
	bus, ctrl := newReadyBus(t)

	outside := []uint32{0x000, 0x1DA, 0x539, 0x6FF, 0x740, 0x7FF}
	for _, id := range outside {
		err := bus.TransmitGuarded(id, []byte{1})
		if !errors.Is(err, canbus.ErrOutOfRange) {
			t.Fatalf("id 0x%03X: expected ErrOutOfRange, got %v", id, err)
		}
	}
	if len(ctrl.Sent) != 0 {
		t.Fatalf("guard rejection must never invoke the controller, sent %d frames", len(ctrl.Sent))
	}
}

func TestTransmitGuardedAcceptsCustomRange(t *testing.T) {
	bus, ctrl := newReadyBus(t)

	for _, id := range []uint32{0x700, 0x710, 0x731, 0x73F} {
		if err := bus.TransmitGuarded(id, []byte{0xAA}); err != nil {
			t.Fatalf("id 0x%03X: %v", id, err)
		}
	}
	if got := len(ctrl.Sent); got != 4 {
		t.Fatalf("expected 4 transmitted frames, got %d", got)
	}
}

func TestTransmitBeforeInit(t *testing.T) {
	bus := canbus.New(&canbustest.Controller{})
	if err := bus.Transmit(0x700, nil); !errors.Is(err, canbus.ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled, got %v", err)
	}
}

func TestTransmitWhileBusOff(t *testing.T) {
	bus, ctrl := newReadyBus(t)

	ctrl.State = canbus.StateBusOff
	bus.CheckHealth(time.Now())

	if err := bus.Transmit(0x700, []byte{1}); !errors.Is(err, canbus.ErrBusOff) {
		t.Fatalf("expected ErrBusOff, got %v", err)
	}
	if _, ok := bus.Receive(); ok {
		t.Fatal("receive must report nothing while bus-off")
	}
}

func TestTransmitRejectsOversizedPayload(t *testing.T) {
	bus, _ := newReadyBus(t)
	if err := bus.Transmit(0x700, make([]byte, 9)); !errors.Is(err, canbus.ErrPayloadTooLong) {
		t.Fatalf("expected ErrPayloadTooLong, got %v", err)
	}
}

func TestTransmitTimeoutCountsError(t *testing.T) {
	bus, ctrl := newReadyBus(t)
	ctrl.TransmitErr = errors.New("queue full")

	if err := bus.Transmit(0x700, []byte{1}); !errors.Is(err, canbus.ErrTransmitTimeout) {
		t.Fatalf("expected ErrTransmitTimeout, got %v", err)
	}
	if got := bus.TxErrorCount(); got != 1 {
		t.Fatalf("tx error count = %d, want 1", got)
	}
}

func TestBusOffRecoveryBackoff(t *testing.T) {
	bus, ctrl := newReadyBus(t)
	ctrl.State = canbus.StateBusOff

	base := time.Now()
	bus.CheckHealth(base)
	bus.CheckHealth(base.Add(100 * time.Millisecond))

	if ctrl.RecoverCalls != 1 {
		t.Fatalf("two health checks 100ms apart triggered %d recovery attempts, want 1", ctrl.RecoverCalls)
	}

	bus.CheckHealth(base.Add(600 * time.Millisecond))
	if ctrl.RecoverCalls != 2 {
		t.Fatalf("recovery attempts after backoff elapsed = %d, want 2", ctrl.RecoverCalls)
	}
}

func TestBusOffClearsWhenControllerRuns(t *testing.T) {
	bus, ctrl := newReadyBus(t)

	ctrl.State = canbus.StateBusOff
	bus.CheckHealth(time.Now())
	if !bus.BusOff() {
		t.Fatal("expected bus-off after controller reported it")
	}

	ctrl.State = canbus.StateRunning
	bus.CheckHealth(time.Now())
	if bus.BusOff() {
		t.Fatal("expected recovery once the controller reports running")
	}
	if !bus.Available() {
		t.Fatal("recovered bus must be available")
	}
}

func TestReceiveDrainsQueue(t *testing.T) {
	bus, ctrl := newReadyBus(t)
	ctrl.Enqueue(canbus.Frame{ID: 0x1DA, DLC: 8})
	ctrl.Enqueue(canbus.Frame{ID: 0x1DB, DLC: 8})

	var ids []uint32
	for {
		f, ok := bus.Receive()
		if !ok {
			break
		}
		ids = append(ids, f.ID)
	}
	if len(ids) != 2 || ids[0] != 0x1DA || ids[1] != 0x1DB {
		t.Fatalf("drained ids = %v", ids)
	}
}

func TestErrorCountersSaturate(t *testing.T) {
	bus, ctrl := newReadyBus(t)

	ctrl.TxErrDelta = math.MaxUint32
	bus.CheckHealth(time.Now())
	ctrl.TxErrDelta = 10
	bus.CheckHealth(time.Now())

	if got := bus.TxErrorCount(); got != math.MaxUint32 {
		t.Fatalf("tx error count = %d, want saturation at MaxUint32", got)
	}
}

func TestInitNormalizesUnknownBitrate(t *testing.T) {
	ctrl := &canbustest.Controller{}
	bus := canbus.New(ctrl)
	if err := bus.Init(canbus.Config{Bitrate: 12345}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := ctrl.InstalledCfg.Bitrate; got != 500000 {
		t.Fatalf("bitrate = %d, want default 500000", got)
	}
}

func TestInitFailurePropagates(t *testing.T) {
	wantErr := errors.New("driver install failed")
	bus := canbus.New(&canbustest.Controller{InstallErr: wantErr})
	if err := bus.Init(canbus.Config{Bitrate: 500000}); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped install error, got %v", err)
	}
	if bus.Available() {
		t.Fatal("bus must not be available after failed init")
	}
}
