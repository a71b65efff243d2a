// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// remote-ui is the control console for a remote renderer. It connects
// to the renderer over TCP, mirrors the renderer's parameters as
// sliders and choosers in a terminal UI, shows the telemetry the
// renderer streams back, and captures HDR frames for export as PFM.
//
// Exit status: 0 on a normal quit or stop, 1 when the renderer cannot
// be reached or startup fails, 2 for invalid flags or configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/remoteui/remoteui/channel"
	"github.com/remoteui/remoteui/console"
	"github.com/remoteui/remoteui/control"
	"github.com/remoteui/remoteui/frame"
	"github.com/remoteui/remoteui/lib/cli"
	"github.com/remoteui/remoteui/lib/clock"
	"github.com/remoteui/remoteui/lib/config"
	"github.com/remoteui/remoteui/lib/menu"
	"github.com/remoteui/remoteui/lib/tui"
	"github.com/remoteui/remoteui/lib/version"
	"github.com/remoteui/remoteui/telemetry"
	"github.com/remoteui/remoteui/transport"
)

func main() {
	err := run()
	if err != nil {
		var exitError *cli.ExitError
		if !errors.As(err, &exitError) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	os.Exit(cli.ExitCode(err))
}

// options are the parsed command-line flags.
type options struct {
	configPath     string
	host           string
	port           int
	logLevel       string
	logOutput      string
	nifPaths       string
	exportDir      string
	compressExport string
	outboxBytes    int
	color          string
}

func run() error {
	var opts options
	flagSet := newFlagSet(&opts)

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("remote-ui")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return cli.Validation("%w", err)
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return cli.Validation("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(flagSet, &opts)
	if err != nil {
		return err
	}

	if err := tui.ApplyColorMode(opts.color); err != nil {
		return cli.Validation("%w", err)
	}
	level, off, err := config.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return cli.Validation("%w", err)
	}
	dialTimeout, err := time.ParseDuration(cfg.Renderer.DialTimeout)
	if err != nil || dialTimeout <= 0 {
		return cli.Validation("renderer.dial_timeout %q is not a positive duration", cfg.Renderer.DialTimeout)
	}
	compression, err := frame.ParseCompression(cfg.Export.Compression)
	if err != nil {
		return cli.Validation("%w", err)
	}
	models, err := menu.ReadFile(cfg.Menu.Path)
	if err != nil {
		return cli.Validation("%w", err).
			WithHint("The --nif-paths file must be a JSON object mapping display names to renderer paths.")
	}

	logs, err := newLogging(level, off, cfg.Log.Output)
	if err != nil {
		return err
	}
	defer logs.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := cfg.Renderer.Address()
	logs.startup.Info("connecting to renderer", "address", address)
	conn, err := transport.Dial(ctx, address, dialTimeout)
	if err != nil {
		return cli.Transient("cannot connect to renderer at %s: %w", address, err).
			WithHint("Start the renderer (or remote-ui-mock-renderer for testing) and check --host and --port.")
	}
	defer conn.Close()
	conn.WriteTimeout = 5 * time.Second

	return runConsole(ctx, conn, cfg, consoleOptions{
		address:     address,
		models:      models,
		compression: compression,
		logs:        logs,
	})
}

// newFlagSet defines the console's flags, binding them to opts.
func newFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("remote-ui", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "YAML configuration file; flags override its values")
	flagSet.StringVar(&opts.host, "host", "localhost", "renderer host name or address")
	flagSet.IntVar(&opts.port, "port", 3000, "renderer port")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level: trace, debug, info, warn, err, critical, off")
	flagSet.StringVar(&opts.logOutput, "log-output", "", "also write JSON log records to this file")
	flagSet.StringVar(&opts.nifPaths, "nif-paths", "", "JSON file mapping model names to renderer-side paths")
	flagSet.StringVar(&opts.exportDir, "export-dir", ".", "directory for exported PFM frames")
	flagSet.StringVar(&opts.compressExport, "compress-export", "none", "compress exported frames: none, zstd or lz4")
	flagSet.IntVar(&opts.outboxBytes, "outbox-bytes", 4*1024*1024, "bound on queued outbound data; the oldest values are dropped beyond it")
	flagSet.StringVar(&opts.color, "color", "auto", "terminal colors: auto, always or never")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

// loadConfig builds the configuration from the optional file, then
// applies every flag the operator set explicitly.
func loadConfig(flagSet *pflag.FlagSet, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, cli.Validation("%w", err)
		}
		cfg = loaded
	}

	if flagSet.Changed("host") {
		cfg.Renderer.Host = opts.host
	}
	if flagSet.Changed("port") {
		cfg.Renderer.Port = opts.port
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flagSet.Changed("log-output") {
		cfg.Log.Output = opts.logOutput
	}
	if flagSet.Changed("nif-paths") {
		cfg.Menu.Path = opts.nifPaths
	}
	if flagSet.Changed("export-dir") {
		cfg.Export.Directory = opts.exportDir
	}
	if flagSet.Changed("compress-export") {
		cfg.Export.Compression = opts.compressExport
	}
	if flagSet.Changed("outbox-bytes") {
		cfg.Outbox.MaxBytes = opts.outboxBytes
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

type consoleOptions struct {
	address     string
	models      []menu.Entry
	compression frame.Compression
	logs        *logging
}

// session is the channel layer on one renderer connection: the
// registry and publisher plus every component subscribed to them.
type session struct {
	conn        *transport.Conn
	registry    *channel.Registry
	publisher   *channel.Publisher
	changes     chan struct{}
	frameMeter  *telemetry.RateMeter
	panel       *control.Panel
	monitor     *telemetry.Monitor
	accumulator *frame.Accumulator

	cancelPublish context.CancelFunc
	publishDone   chan struct{}
	cancelReceive context.CancelFunc
	receiveDone   chan struct{}
}

// startSession subscribes every component, then starts the writer and
// the receive goroutine. Reading starts last so values the renderer
// sends on connect have a subscriber.
func startSession(ctx context.Context, conn *transport.Conn, cfg *config.Config, opts consoleOptions) *session {
	logger := opts.logs.background
	realClock := clock.Real()

	s := &session{
		conn:        conn,
		registry:    channel.NewRegistry(logger.With("component", "registry")),
		publisher:   channel.NewPublisher(conn, cfg.Outbox.MaxBytes, logger.With("component", "publisher")),
		changes:     make(chan struct{}, 1),
		frameMeter:  telemetry.NewRateMeter(realClock, 5*time.Second),
		publishDone: make(chan struct{}),
		receiveDone: make(chan struct{}),
	}
	s.panel = control.NewPanel(s.registry, s.publisher, opts.models, s.changes, logger.With("component", "control"))
	s.monitor = telemetry.NewMonitor(s.registry, realClock, s.changes, logger.With("component", "telemetry"))
	s.accumulator = frame.NewAccumulator(s.registry, frame.Config{
		Clock:  realClock,
		Notify: s.changes,
		OnComplete: func(*frame.Snapshot) {
			s.frameMeter.Mark()
		},
		Logger: logger.With("component", "frame"),
	})

	var publishContext, receiveContext context.Context
	publishContext, s.cancelPublish = context.WithCancel(context.Background())
	go func() {
		defer close(s.publishDone)
		s.publisher.Run(publishContext)
	}()

	receiveContext, s.cancelReceive = context.WithCancel(ctx)
	go func() {
		defer close(s.receiveDone)
		if err := conn.Receive(receiveContext, s.registry); err != nil {
			logger.Error("connection to renderer failed", "error", err)
			return
		}
		if receiveContext.Err() == nil {
			logger.Error("renderer closed the connection")
		}
	}()
	return s
}

// close deregisters every component so nothing dispatches into
// torn-down state, flushes queued values (a stop request included),
// then closes the connection.
func (s *session) close() channel.PublisherStats {
	s.panel.Close()
	s.monitor.Close()
	s.accumulator.Close()
	s.publisher.Close()
	s.cancelPublish()
	<-s.publishDone
	s.cancelReceive()
	s.conn.Close()
	<-s.receiveDone
	return s.publisher.Stats()
}

// runConsole runs the terminal UI on a session until the operator
// quits or stops the renderer.
func runConsole(ctx context.Context, conn *transport.Conn, cfg *config.Config, opts consoleOptions) error {
	s := startSession(ctx, conn, cfg, opts)

	model := console.NewModel(console.Config{
		Panel:           s.panel,
		Monitor:         s.monitor,
		Accumulator:     s.accumulator,
		FrameMeter:      s.frameMeter,
		Stats:           s.publisher.Stats,
		Changes:         s.changes,
		ExportDirectory: cfg.Export.Directory,
		Compression:     opts.compression,
		Address:         opts.address,
		Clock:           clock.Real(),
		Logger:          opts.logs.background,
		Logs:            opts.logs.tui,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, runErr := program.Run()

	stats := s.close()
	opts.logs.startup.Info("console closed",
		"sent", stats.Sent, "dropped", stats.Dropped, "failed", stats.Failed)

	if runErr != nil {
		if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return cli.Internal("terminal UI: %w", runErr)
	}
	if finalModel, ok := final.(console.Model); ok && finalModel.Stopped() {
		opts.logs.startup.Info("renderer stop requested")
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `remote-ui: control console for a remote renderer.

Connects to the renderer at --host:--port and shows its parameters as
sliders and choosers. Changes are sent as you make them; values the
renderer reports back update the controls. Press e to export the most
recent complete HDR frame as PFM.

Usage:
  remote-ui [flags]

Examples:
  # Connect to a local renderer
  remote-ui

  # Connect to a render box with a model menu
  remote-ui --host render-box --port 3000 --nif-paths models.json

  # Try the console against the bundled mock renderer
  remote-ui-mock-renderer --listen localhost:3000 &
  remote-ui

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
