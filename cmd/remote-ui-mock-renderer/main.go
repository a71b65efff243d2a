// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// remote-ui-mock-renderer stands in for the remote renderer during
// development and end-to-end tests of remote-ui. It listens on TCP,
// serves one console session at a time, echoes parameter changes back,
// and streams telemetry plus a synthetic HDR frame on a timer. It exits
// when a console presses Stop or on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/remoteui/remoteui/internal/mockrenderer"
	"github.com/remoteui/remoteui/lib/cli"
	"github.com/remoteui/remoteui/lib/config"
	"github.com/remoteui/remoteui/lib/tui"
	"github.com/remoteui/remoteui/lib/version"
	"github.com/remoteui/remoteui/transport"
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}

func run() error {
	var (
		listenAddress string
		logLevel      string
		showVersion   bool
		renderConfig  mockrenderer.Config
	)
	flagSet := pflag.NewFlagSet("remote-ui-mock-renderer", pflag.ContinueOnError)
	flagSet.StringVar(&listenAddress, "listen", "localhost:3000", "TCP address to accept the console on")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, err, critical, off")
	flagSet.IntVar(&renderConfig.Width, "width", 64, "synthetic frame width")
	flagSet.IntVar(&renderConfig.Height, "height", 36, "synthetic frame height")
	flagSet.IntVar(&renderConfig.RowsPerPacket, "rows-per-packet", 8, "rows per hdr_rows message")
	flagSet.DurationVar(&renderConfig.FrameInterval, "frame-interval", 0, "time between frames (default 500ms)")
	flagSet.DurationVar(&renderConfig.TelemetryInterval, "telemetry-interval", 0, "time between telemetry updates (default 1s)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return cli.Validation("%w", err)
	}
	if showVersion {
		version.Print("remote-ui-mock-renderer")
		return nil
	}

	level, off, err := config.ParseLogLevel(logLevel)
	if err != nil {
		return cli.Validation("%w", err)
	}
	handler := tui.StderrHandler(&slog.HandlerOptions{Level: level})
	if off {
		handler = slog.DiscardHandler
	}
	logger := slog.New(handler)
	renderConfig.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := transport.Listen(listenAddress)
	if err != nil {
		return cli.Transient("cannot listen on %s: %w", listenAddress, err)
	}
	defer listener.Close()

	renderer := mockrenderer.New(renderConfig)
	logger.Info("mock renderer listening", "address", listener.Address())

	for {
		conn, err := listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("shutting down")
				return nil
			}
			return cli.Transient("accept: %w", err)
		}
		err = renderer.Serve(ctx, conn)
		switch {
		case errors.Is(err, mockrenderer.ErrStopped):
			logger.Info("stopped by console", "parameters", renderer.Parameters())
			return nil
		case err != nil:
			logger.Warn("session ended", "error", err)
		}
	}
}
