// cmd/publisher/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/tamzrod/serial-relay/internal/bus"
	"github.com/tamzrod/serial-relay/internal/config"
	"github.com/tamzrod/serial-relay/internal/publisher"
	"github.com/tamzrod/serial-relay/internal/retry"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "config.yaml", "path to config file")
	logLevel := pflag.String("log-level", "warn", "debug, info, warn or error")
	pflag.Parse()

	log := newLogger(*logLevel)

	if err := run(*cfgPath, log); err != nil {
		log.Error("publisher stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfgPath string, log *slog.Logger) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	p := &cfg.Publisher
	if err := config.ValidatePublisher(p); err != nil {
		return err
	}
	config.NormalizePublisher(p)

	if p.Bus.ClientID == "" {
		p.Bus.ClientID = "publisher-" + uuid.NewString()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := bus.Build(p.Bus, log, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	pub, err := publisher.New(publisher.Config{
		Topic: p.Bus.Topic,
		Retry: retry.Policy{Attempts: p.Bus.Attempts, Delay: config.Ms(p.Bus.DelayMs)},
	}, sess, log)
	if err != nil {
		return err
	}

	// An unreachable broker is not fatal; Send reconnects on demand.
	if err := pub.Connect(ctx); err != nil {
		log.Warn("broker unreachable, commands will retry on send", "url", p.Bus.URL, "err", err)
	}

	return pub.Run(ctx, os.Stdin, os.Stdout)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
