package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mgbdash/dashbus/internal/canbus"
	"github.com/mgbdash/dashbus/internal/canbus/ebyte"
	"github.com/mgbdash/dashbus/internal/canbus/slcan"
	"github.com/mgbdash/dashbus/internal/canlog"
	"github.com/mgbdash/dashbus/internal/config"
	"github.com/mgbdash/dashbus/internal/heartbeat"
	"github.com/mgbdash/dashbus/internal/node"
	"github.com/mgbdash/dashbus/internal/observability"
	"github.com/mgbdash/dashbus/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to node TOML config (defaults apply when omitted)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "busnode: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	logger := observability.InitLogger("busnode")

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	logRole, roleName, err := config.ResolveRole(cfg.Role)
	if err != nil {
		return err
	}

	ctrl, closer, err := newController(cfg.Transport)
	if err != nil {
		return err
	}
	defer closer.Close()

	bus := canbus.New(ctrl)
	if err := bus.Init(canbus.Config{Bitrate: cfg.Bitrate}); err != nil {
		return err
	}
	logger.Info().
		Str("role", cfg.Role).
		Str("transport", cfg.Transport.Kind).
		Uint32("bitrate", cfg.Bitrate).
		Msg("bus up")

	canLog := canlog.New(bus, logRole, logger)
	canLog.SetMinLevel(cfg.MinLogLevel)

	beacon := heartbeat.NewBeacon(bus, roleName)

	n := node.New(bus, beacon, canLog, node.Config{Role: logRole})
	n.OnTelemetry(func(m telemetry.Message) {
		logger.Debug().Str("msg", fmt.Sprintf("%T%+v", m, m)).Msg("telemetry")
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = n.Run(ctx)
	logger.Info().
		Uint32("tx_errors", bus.TxErrorCount()).
		Uint32("rx_errors", bus.RxErrorCount()).
		Msg("shutting down")
	return err
}

// newController builds the configured frame controller. The returned
// closer releases the underlying connection or port on shutdown.
func newController(t config.Transport) (canbus.Controller, io.Closer, error) {
	switch t.Kind {
	case "ebyte":
		if t.Address == "" {
			return nil, nil, fmt.Errorf("transport ebyte: address required")
		}
		c := ebyte.NewController(t.Address)
		return c, c, nil
	case "slcan":
		if t.Device == "" {
			return nil, nil, fmt.Errorf("transport slcan: device required")
		}
		c := slcan.NewController(t.Device, t.Baud)
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("unknown transport kind %q", t.Kind)
	}
}
