// cmd/gateway/main.go
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

	"github.com/tamzrod/serial-relay/internal/bus"
	"github.com/tamzrod/serial-relay/internal/config"
	"github.com/tamzrod/serial-relay/internal/health"
	"github.com/tamzrod/serial-relay/internal/link"
	"github.com/tamzrod/serial-relay/internal/metrics"
	"github.com/tamzrod/serial-relay/internal/network"
	"github.com/tamzrod/serial-relay/internal/relay"
	"github.com/tamzrod/serial-relay/internal/retry"
	"github.com/tamzrod/serial-relay/internal/supervisor"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "config.yaml", "path to config file")
	logLevel := pflag.String("log-level", "info", "debug, info, warn or error")
	pflag.Parse()

	log := newLogger(*logLevel)

	if err := run(*cfgPath, log); err != nil {
		log.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfgPath string, log *slog.Logger) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	g := &cfg.Gateway
	if err := config.ValidateGateway(g); err != nil {
		return err
	}
	config.NormalizeGateway(g)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	met := metrics.NewGateway(reg)

	// --------------------
	// Serial link
	// --------------------

	port, err := link.Open(link.Config{
		Address: g.Serial.Address,
		Baud:    g.Serial.Baud,
		Timeout: config.Ms(g.Serial.TimeoutMs),
	})
	if err != nil {
		return err
	}
	defer port.Close()

	fwd := relay.New(port, log, met)

	// --------------------
	// Sessions + supervisor
	// --------------------

	sess, err := bus.Build(g.Bus, log, met)
	if err != nil {
		return err
	}
	defer sess.Close()

	sup, err := supervisor.New(
		supervisor.Config{
			Network:      retry.Policy{Attempts: g.Network.Attempts, Delay: config.Ms(g.Network.DelayMs)},
			Bus:          retry.Policy{Attempts: g.Bus.Attempts, Delay: config.Ms(g.Bus.DelayMs)},
			Topic:        g.Bus.Topic,
			Interval:     config.Ms(g.Loop.IntervalMs),
			NetworkCheck: config.Ms(g.Network.CheckMs),
		},
		network.NewInterface(g.Network.Interface),
		sess,
		fwd.OnMessage,
		log,
		met,
	)
	if err != nil {
		return err
	}

	// Status block (optional)
	if g.Status.Endpoint != "" {
		cli, err := health.NewEndpointClient(health.ClientConfig{
			Endpoint: g.Status.Endpoint,
			Timeout:  config.Ms(g.Status.TimeoutMs),
		})
		if err != nil {
			return err
		}
		defer cli.Close()

		sw, err := health.NewStatusWriter(health.WriterConfig{
			UnitID:     g.Status.UnitID,
			Slot:       g.Status.Slot,
			DeviceName: g.Status.DeviceName,
		}, cli)
		if err != nil {
			return err
		}
		sup.AddDuty(health.NewReporter(sw, log))
	}

	// --------------------
	// Run
	// --------------------

	grp, gctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		sup.Run(gctx)
		return nil
	})

	grp.Go(func() error {
		return link.ReadLines(gctx, port, func(line string) {
			log.Debug("controller response", "line", line)
		})
	})

	if g.Metrics.Listen != "" {
		grp.Go(func() error {
			return metrics.Serve(gctx, g.Metrics.Listen, reg, func() bool {
				return sup.State().Up()
			}, log)
		})
	}

	log.Info("gateway started",
		"serial", g.Serial.Address,
		"bus", g.Bus.Kind,
		"url", g.Bus.URL,
		"topic", g.Bus.Topic,
	)

	err = grp.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("gateway shutdown")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
