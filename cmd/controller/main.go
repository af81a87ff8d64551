// cmd/controller/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/serial-relay/internal/actuator"
	"github.com/tamzrod/serial-relay/internal/config"
	"github.com/tamzrod/serial-relay/internal/interpreter"
	"github.com/tamzrod/serial-relay/internal/link"
	"github.com/tamzrod/serial-relay/internal/metrics"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "config.yaml", "path to config file")
	logLevel := pflag.String("log-level", "info", "debug, info, warn or error")
	pflag.Parse()

	log := newLogger(*logLevel)

	if err := run(*cfgPath, log); err != nil {
		log.Error("controller stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfgPath string, log *slog.Logger) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	c := &cfg.Controller
	if err := config.ValidateController(c); err != nil {
		return err
	}
	config.NormalizeController(c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	met := metrics.NewController(reg)

	port, err := link.Open(link.Config{
		Address: c.Serial.Address,
		Baud:    c.Serial.Baud,
		Timeout: config.Ms(c.Serial.TimeoutMs),
	})
	if err != nil {
		return err
	}
	defer port.Close()

	act := actuator.New(actuator.Config{
		PulseHigh: config.Ms(c.Pulse.HighMs),
		PulseLow:  config.Ms(c.Pulse.LowMs),
	}, actuator.NewSimDriver(log))

	buf := interpreter.NewBuffer(c.BufferSize)
	it := interpreter.New(buf, act, port, log, met)

	grp, gctx := errgroup.WithContext(ctx)

	// Reception context.
	grp.Go(func() error {
		return link.Pump(gctx, port, buf)
	})

	// Main loop.
	grp.Go(func() error {
		return it.Run(gctx)
	})

	if c.Metrics.Listen != "" {
		grp.Go(func() error {
			return metrics.Serve(gctx, c.Metrics.Listen, reg, nil, log)
		})
	}

	log.Info("controller ready",
		"serial", c.Serial.Address,
		"buffer", buf.Capacity(),
	)

	err = grp.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("controller shutdown")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
