// canemu plays back synthetic vehicle traffic: Leaf drivetrain frames,
// body-controller broadcasts, GPS fixes, and module heartbeats. It
// exists so a dashboard can be exercised on a bench with no car.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgbdash/dashbus/internal/canbus"
	"github.com/mgbdash/dashbus/internal/canbus/ebyte"
	"github.com/mgbdash/dashbus/internal/canbus/slcan"
	"github.com/mgbdash/dashbus/internal/canid"
	"github.com/mgbdash/dashbus/internal/heartbeat"
	"github.com/mgbdash/dashbus/internal/observability"
	"github.com/mgbdash/dashbus/internal/telemetry"
)

type options struct {
	transport string
	address   string
	device    string
	baud      int

	speedMPH float64
	odometer uint
	soc      uint
	charging bool
}

func main() {
	var opts options
	flag.StringVar(&opts.transport, "transport", "ebyte", "frame controller: ebyte or slcan")
	flag.StringVar(&opts.address, "addr", "", "ebyte adapter host:port")
	flag.StringVar(&opts.device, "device", "", "slcan serial device")
	flag.IntVar(&opts.baud, "baud", 115200, "slcan serial baud rate")
	flag.Float64Var(&opts.speedMPH, "speed", 34.5, "vehicle speed, mph")
	flag.UintVar(&opts.odometer, "odometer", 48211, "odometer, miles")
	flag.UintVar(&opts.soc, "soc", 80, "battery state of charge, percent")
	flag.BoolVar(&opts.charging, "charging", false, "emulate an active charge session")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "canemu: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	logger := observability.InitLogger("canemu")

	var ctrl canbus.Controller
	switch opts.transport {
	case "ebyte":
		if opts.address == "" {
			return fmt.Errorf("transport ebyte: -addr required")
		}
		c := ebyte.NewController(opts.address)
		defer c.Close()
		ctrl = c
	case "slcan":
		if opts.device == "" {
			return fmt.Errorf("transport slcan: -device required")
		}
		c := slcan.NewController(opts.device, opts.baud)
		defer c.Close()
		ctrl = c
	default:
		return fmt.Errorf("unknown transport %q", opts.transport)
	}

	bus := canbus.New(ctrl)
	if err := bus.Init(canbus.Config{Bitrate: canid.DefaultBitrate}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	em := newEmulator(bus, opts)
	logger.Info().
		Float64("speed", opts.speedMPH).
		Uint("soc", opts.soc).
		Bool("charging", opts.charging).
		Msg("playback started")
	em.run(ctx)
	return nil
}

// emulator drives the playback loop. Leaf and body frames go out at
// 10 Hz, GPS at 1 Hz, heartbeats self-pace through their beacons.
type emulator struct {
	bus     *canbus.Bus
	leaf    leafState
	opts    options
	beacons []*heartbeat.Beacon
	tick    int
}

func newEmulator(bus *canbus.Bus, opts options) *emulator {
	leaf := defaultLeafState()
	leaf.SOCPercent = uint8(opts.soc)
	leaf.PreciseSOC = float64(opts.soc)
	if opts.charging {
		leaf.ChargerKW = 6.6
		leaf.CurrentA = 18
		leaf.RPM = 0
		leaf.TorqueNm = 0
	}

	roles := []heartbeat.RoleName{
		heartbeat.RoleFuel, heartbeat.RoleAmps, heartbeat.RoleTemp,
		heartbeat.RoleSpeed, heartbeat.RoleBody, heartbeat.RoleGPS,
	}
	beacons := make([]*heartbeat.Beacon, 0, len(roles))
	for _, r := range roles {
		beacons = append(beacons, heartbeat.NewBeacon(bus, r))
	}
	return &emulator{bus: bus, leaf: leaf, opts: opts, beacons: beacons}
}

func (e *emulator) run(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			e.step(now)
		}
	}
}

func (e *emulator) step(now time.Time) {
	e.bus.CheckHealth(now)
	e.tick++

	e.emitLeaf()
	e.emitBody()
	if e.tick%10 == 0 {
		e.emitGPS()
	}
	for _, b := range e.beacons {
		b.Tick(now)
	}
}

// emitLeaf sends the drivetrain set. Leaf identifiers sit outside the
// custom range, so these frames bypass the transmit guard the way the
// vehicle's own ECUs would.
func (e *emulator) emitLeaf() {
	frames := []struct {
		id   uint32
		data [8]byte
	}{
		{canid.LeafMotorStatus, e.leaf.motorFrame()},
		{canid.LeafBatteryStatus, e.leaf.batteryFrame()},
		{canid.LeafCharger, e.leaf.chargerFrame()},
		{canid.LeafVCM, e.leaf.vcmFrame()},
		{canid.LeafInverterTemps, e.leaf.inverterTempsFrame()},
		{canid.LeafSOCPrecise, e.leaf.preciseSOCFrame()},
		{canid.LeafBatteryHealth, e.leaf.healthFrame()},
		{canid.LeafBatteryTemp, e.leaf.batteryTempFrame()},
		{canid.LeafAZE0ID, [8]byte{}},
	}
	for _, f := range frames {
		_ = e.bus.Transmit(f.id, f.data[:])
	}
}

func (e *emulator) emitBody() {
	state := telemetry.EncodeBodyState(telemetry.BodyState{
		KeyOn: true,
		Fan:   e.tick%600 >= 300, // toggle every 30 s
	})
	speed := telemetry.EncodeBodySpeed(e.opts.speedMPH)
	gear := telemetry.EncodeBodyGear(canid.Gear3, false)
	odo := telemetry.EncodeBodyOdometer(uint32(e.opts.odometer))

	_ = e.bus.TransmitGuarded(canid.BodyState, state[:])
	_ = e.bus.TransmitGuarded(canid.BodySpeed, speed[:])
	_ = e.bus.TransmitGuarded(canid.BodyGear, gear[:])
	_ = e.bus.TransmitGuarded(canid.BodyOdometer, odo[:])
}

func (e *emulator) emitGPS() {
	values := []struct {
		id uint32
		v  float64
	}{
		{canid.GPSSpeed, e.opts.speedMPH},
		{canid.GPSLatitude, 35.6528},
		{canid.GPSLongitude, -97.4781},
		{canid.GPSElevation, 396.0},
	}
	for _, g := range values {
		d := telemetry.EncodeGPSValue(g.v)
		_ = e.bus.TransmitGuarded(g.id, d[:])
	}

	light := telemetry.EncodeAmbientLight(canid.AmbientDaylight)
	_ = e.bus.TransmitGuarded(canid.GPSAmbientLight, light[:])
	utc := telemetry.EncodeUTCOffset(-5 * 60)
	_ = e.bus.TransmitGuarded(canid.GPSUTCOffset, utc[:])
}
