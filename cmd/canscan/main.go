// canscan listens on the bus, reports which modules are alive, and
// streams decoded traffic. With -mqtt it mirrors decoded telemetry to
// an MQTT broker as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/mgbdash/dashbus/internal/canbus"
	"github.com/mgbdash/dashbus/internal/canbus/ebyte"
	"github.com/mgbdash/dashbus/internal/canbus/slcan"
	"github.com/mgbdash/dashbus/internal/canid"
	"github.com/mgbdash/dashbus/internal/canlog"
	"github.com/mgbdash/dashbus/internal/heartbeat"
	"github.com/mgbdash/dashbus/internal/observability"
	"github.com/mgbdash/dashbus/internal/telemetry"
)

// expectedRoles is every module the dashboard ships with. The scan
// report flags the ones whose heartbeat never showed up.
var expectedRoles = []string{"FUEL", "AMPS", "TEMP", "SPEED", "BODY", "DASH", "GPS"}

type options struct {
	transport string
	address   string
	device    string
	baud      int
	bitrate   uint
	window    time.Duration
	follow    bool
	mqttURL   string
	mqttTopic string
}

func main() {
	var opts options
	flag.StringVar(&opts.transport, "transport", "ebyte", "frame controller: ebyte or slcan")
	flag.StringVar(&opts.address, "addr", "", "ebyte adapter host:port")
	flag.StringVar(&opts.device, "device", "", "slcan serial device")
	flag.IntVar(&opts.baud, "baud", 115200, "slcan serial baud rate")
	flag.UintVar(&opts.bitrate, "bitrate", uint(canid.DefaultBitrate), "bus bitrate")
	flag.DurationVar(&opts.window, "window", 5*time.Second, "scan window before the report")
	flag.BoolVar(&opts.follow, "follow", false, "keep streaming decoded frames after the report")
	flag.StringVar(&opts.mqttURL, "mqtt", "", "MQTT broker URL for the telemetry uplink (optional)")
	flag.StringVar(&opts.mqttTopic, "mqtt-topic", "dashbus", "MQTT topic prefix")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "canscan: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	logger := observability.InitLogger("canscan")

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
	if err := bus.Init(canbus.Config{Bitrate: uint32(opts.bitrate)}); err != nil {
		return err
	}

	var up *uplink
	if opts.mqttURL != "" {
		u, err := newUplink(opts.mqttURL, opts.mqttTopic)
		if err != nil {
			return err
		}
		defer u.Close()
		up = u
		logger.Info().Str("broker", opts.mqttURL).Msg("telemetry uplink connected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sc := newScanner(up)

	logger.Info().Dur("window", opts.window).Msg("scanning")
	sc.collect(ctx, bus, opts.window, false)
	sc.report(os.Stdout)

	if opts.follow {
		sc.collect(ctx, bus, 0, true)
	}
	return nil
}

// scanner accumulates what the bus shows during the window.
type scanner struct {
	rolesSeen   map[string]bool
	idsSeen     map[uint32]int
	aze0        bool
	logs        *logAssembler
	uplink      *uplink
	frameCount  int
	decodeCount int
}

func newScanner(up *uplink) *scanner {
	return &scanner{
		rolesSeen: make(map[string]bool),
		idsSeen:   make(map[uint32]int),
		logs:      newLogAssembler(),
		uplink:    up,
	}
}

// collect drains the bus until the window elapses (or forever when
// window is zero), printing decoded frames when print is set.
func (s *scanner) collect(ctx context.Context, bus *canbus.Bus, window time.Duration, print bool) {
	var deadline <-chan time.Time
	if window > 0 {
		t := time.NewTimer(window)
		defer t.Stop()
		deadline = t.C
	}

	poll := time.NewTicker(10 * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case now := <-poll.C:
			bus.CheckHealth(now)
			for {
				f, ok := bus.Receive()
				if !ok {
					break
				}
				s.observe(f, print)
			}
		}
	}
}

func (s *scanner) observe(f canbus.Frame, print bool) {
	s.frameCount++
	s.idsSeen[f.ID]++

	switch f.ID {
	case canid.Heartbeat:
		if hb, ok := heartbeat.ParsePayload(f.Payload()); ok {
			s.rolesSeen[hb.Role] = true
			if print {
				fmt.Printf("0x%03X HEARTBEAT role=%s counter=%d flags=0x%02X\n",
					f.ID, hb.Role, hb.Counter, hb.ErrorFlags)
			}
		}
	case canid.Log, canid.LogText:
		if line, ok := s.logs.feed(f); ok && print {
			fmt.Println(line)
		}
	default:
		msg, ok := telemetry.Decode(f.ID, f.Payload())
		if !ok {
			return
		}
		s.decodeCount++
		if _, isGen := msg.(telemetry.GenerationID); isGen {
			s.aze0 = true
		}
		if print {
			fmt.Printf("0x%03X %T%+v\n", f.ID, msg, msg)
		}
		if s.uplink != nil {
			s.uplink.Publish(msg)
		}
	}
}

func (s *scanner) report(w io.Writer) {
	fmt.Fprintf(w, "\n--- scan report: %d frames, %d decoded ---\n", s.frameCount, s.decodeCount)

	if s.aze0 {
		fmt.Fprintln(w, "vehicle: AZE0 EV-CAN detected (0x59E)")
	} else {
		fmt.Fprintln(w, "vehicle: no AZE0 generation frame seen")
	}

	for _, role := range expectedRoles {
		status := "MISSING"
		if s.rolesSeen[role] {
			status = "alive"
		}
		fmt.Fprintf(w, "module %-5s %s\n", role, status)
	}
	for role := range s.rolesSeen {
		if !knownRole(role) {
			fmt.Fprintf(w, "module %-5s alive (unexpected role)\n", role)
		}
	}

	unknown := make([]uint32, 0)
	for id := range s.idsSeen {
		if !knownID(id) {
			unknown = append(unknown, id)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, id := range unknown {
		fmt.Fprintf(w, "unexpected ID 0x%03X (%d frames)\n", id, s.idsSeen[id])
	}
	fmt.Fprintln(w, "---")
}

func knownRole(role string) bool {
	for _, r := range expectedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// knownID reports whether an arbitration ID belongs to the documented
// traffic: vehicle frames the codec decodes plus the custom range.
func knownID(id uint32) bool {
	if id >= canid.CustomIDMin && id <= canid.CustomIDMax {
		return true
	}
	switch id {
	case canid.LeafMotorStatus, canid.LeafBatteryStatus, canid.LeafCharger, canid.LeafVCM,
		canid.LeafInverterTemps, canid.LeafSOCPrecise, canid.LeafBatteryHealth,
		canid.LeafBatteryTemp, canid.LeafAZE0ID, canid.ResolveDisplay:
		return true
	}
	return false
}

// logAssembler reassembles LOG / LOG_TEXT frame sequences into printable
// lines. Fragments arrive in order on a CAN bus, so a single pending
// event per sender nibble-pair is enough.
type logAssembler struct {
	pending *canlog.EventFrame
	text    []byte
	got     uint8
}

func newLogAssembler() *logAssembler { return &logAssembler{} }

// feed consumes one log-protocol frame. ok is true when a complete
// event is ready to print.
func (a *logAssembler) feed(f canbus.Frame) (string, bool) {
	switch f.ID {
	case canid.Log:
		ev, ok := canlog.ParseEventFrame(f.Payload())
		if !ok {
			return "", false
		}
		if ev.TextFrames == 0 {
			return formatLogEvent(ev, ""), true
		}
		a.pending = &ev
		a.text = a.text[:0]
		a.got = 0
		return "", false
	case canid.LogText:
		if a.pending == nil {
			return "", false
		}
		_, chunk, ok := canlog.ParseTextFrame(f.Payload())
		if !ok {
			return "", false
		}
		a.text = append(a.text, chunk...)
		a.got++
		if a.got >= a.pending.TextFrames {
			line := formatLogEvent(*a.pending, string(a.text))
			a.pending = nil
			return line, true
		}
	}
	return "", false
}

func formatLogEvent(ev canlog.EventFrame, text string) string {
	line := fmt.Sprintf("0x%03X LOG [%s] %s %s ctx=%d",
		canid.Log, ev.Level.Name(), ev.Role.Name(), ev.Event.Name(), ev.Context)
	if text != "" {
		line += " " + text
	}
	return line
}
