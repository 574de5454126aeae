// cmd/mpurelay/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/tamzrod/mpu-relay/internal/cancel"
	"github.com/tamzrod/mpu-relay/internal/config"
	"github.com/tamzrod/mpu-relay/internal/device"
	"github.com/tamzrod/mpu-relay/internal/display"
	"github.com/tamzrod/mpu-relay/internal/ioport"
	"github.com/tamzrod/mpu-relay/internal/line"
	"github.com/tamzrod/mpu-relay/internal/logging"
	"github.com/tamzrod/mpu-relay/internal/metrics"
	"github.com/tamzrod/mpu-relay/internal/monitor"
	"github.com/tamzrod/mpu-relay/internal/relay"
	"github.com/tamzrod/mpu-relay/internal/writer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath   string
		logLevel  string
		noDisplay bool
	)

	flagSet := pflag.NewFlagSet("mpurelay", pflag.ContinueOnError)
	flagSet.StringVarP(&cfgPath, "config", "c", "", "path to the YAML config file")
	flagSet.StringVar(&logLevel, "log-level", "", "override log.level (trace|debug|info|warn|error|disabled)")
	flagSet.BoolVar(&noDisplay, "no-display", false, "disable the console counter and colour flash")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	switch {
	case len(args) > 1:
		return fmt.Errorf("unexpected argument: %s", args[1])
	case len(args) == 1 && cfgPath != "":
		return errors.New("config given both as argument and --config")
	case len(args) == 1:
		cfgPath = args[0]
	}
	if cfgPath == "" {
		printHelp(flagSet)
		return errors.New("config path required")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if noDisplay {
		off := false
		cfg.Display.Enabled = &off
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	log := logging.New(os.Stderr, cfg.Log.Level)

	policy, err := relay.ParseReadyPolicy(cfg.Relay.ReadyPolicy)
	if err != nil {
		return err
	}

	sigCtx, stopSignals := cancel.WithSignals(context.Background())
	defer stopSignals()

	var closers closerStack
	defer func() {
		if err := closers.closeAll(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}()

	// --------------------
	// Hardware: port I/O, line, device
	// --------------------

	var bus ioport.Bus
	if cfg.NeedsIOPort() {
		p, err := ioport.Open(cfg.IOPort.Path)
		if err != nil {
			return err
		}
		closers.push(p.Close)
		bus = p
	}

	src, closeLine, err := line.Build(cfg.Line, bus)
	if err != nil {
		return err
	}
	closers.push(closeLine)

	sink, closeDevice, err := device.Build(cfg.Device, bus)
	if err != nil {
		return err
	}
	closers.push(closeDevice)

	// --------------------
	// Observability: display, status block, metrics
	// --------------------

	monCfg := monitor.Config{Log: log}

	var console *display.Console
	if *cfg.Display.Enabled {
		console = display.New(os.Stdout, *cfg.Display.Flash)
		monCfg.Display = console
	}

	if cfg.StatusEnabled() {
		sw, closeStatus, err := writer.BuildStatus(cfg.Status)
		if err != nil {
			return fmt.Errorf("status writer: %w", err)
		}
		closers.push(closeStatus)
		monCfg.Status = sw
	}

	if cfg.Metrics.Listen != "" {
		rec := metrics.New()
		srv, err := metrics.Listen(cfg.Metrics.Listen, rec.Handler(), log)
		if err != nil {
			return err
		}
		closers.push(srv.Close)
		monCfg.Metrics = rec
	}

	mon := monitor.New(monCfg)

	engine, err := relay.New(relay.Config{
		Capacity:    cfg.Relay.BufferCapacity,
		SpinLimit:   cfg.Relay.SpinLimit,
		ReadyPolicy: policy,
	}, src, sink, mon)
	if err != nil {
		return err
	}

	// The keyboard reader starts only after the console has queried the
	// terminal background; the reply begins with ESC.
	ctx, restoreTerm, err := cancel.WatchKeyboard(sigCtx, os.Stdin)
	if err != nil {
		return err
	}
	defer func() {
		if err := restoreTerm(); err != nil {
			log.Warn().Err(err).Msg("terminal restore failed")
		}
	}()

	monCtx, stopMonitor := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mon.Run(monCtx)
	}()

	banner := []string{
		fmt.Sprintf("%s to %s relay", describeLine(cfg.Line), describeDevice(cfg.Device)),
		"Press escape key to exit",
	}
	if console != nil {
		console.Banner(banner...)
	}
	log.Info().
		Str("line", cfg.Line.Driver).
		Str("device", cfg.Device.Driver).
		Int("capacity", cfg.Relay.BufferCapacity).
		Str("ready_policy", cfg.Relay.ReadyPolicy).
		Msg("relay starting")

	// --------------------
	// Relay (blocks until stopped)
	// --------------------

	runErr := engine.Run(ctx)

	mon.Settle(monitor.Totals{
		Delivered: engine.Delivered(),
		Overflows: engine.Overflows(),
		Buffered:  engine.Buffered(),
		State:     engine.State(),
	})
	stopMonitor()
	wg.Wait()

	if console != nil {
		_ = console.Close()
	}

	logRelayEnd(log, engine, mon, runErr)
	return runErr
}

func logRelayEnd(log zerolog.Logger, e *relay.Engine, mon *monitor.Monitor, err error) {
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Uint64("delivered", e.Delivered()).
		Uint64("overflows", e.Overflows()).
		Uint64("observer_dropped", mon.Dropped()).
		Str("state", e.State().String()).
		Msg("relay stopped")
}

func describeLine(c config.LineConfig) string {
	if c.Driver == config.LineUART16550 {
		return fmt.Sprintf("Serial 0x%x @ %d", c.Base, c.Baud)
	}
	return fmt.Sprintf("Serial %s @ %d", c.Device, c.Baud)
}

func describeDevice(c config.DeviceConfig) string {
	if c.Driver == config.DeviceMPU401 {
		return fmt.Sprintf("MPU401 0x%x", c.Base)
	}
	return fmt.Sprintf("MIDI %s", c.Path)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: mpurelay [flags] <config.yaml>

Relays MIDI bytes arriving on a serial line to an MPU-401 compatible
device, buffering while the device is busy.

Flags:
%s`, flagSet.FlagUsages())
}

// closerStack releases resources in reverse acquisition order.
type closerStack []func() error

func (s *closerStack) push(f func() error) { *s = append(*s, f) }

func (s *closerStack) closeAll() error {
	var errs []error
	for i := len(*s) - 1; i >= 0; i-- {
		if err := (*s)[i](); err != nil {
			errs = append(errs, err)
		}
	}
	*s = nil
	return errors.Join(errs...)
}
