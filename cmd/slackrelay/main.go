package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"

	"github.com/slackrelay/slackrelay/internal/config"
	"github.com/slackrelay/slackrelay/internal/metrics"
	"github.com/slackrelay/slackrelay/internal/reactor"
	"github.com/slackrelay/slackrelay/internal/receiver"
	"github.com/slackrelay/slackrelay/internal/slack"
)

var args struct {
	Config  string `arg:"--config,env:SLACKRELAY_CONFIG" default:"config.yaml" help:"path to config file"`
	Listen  string `arg:"--listen,env:SLACKRELAY_LISTEN" help:"HTTP listen address; overrides relay.listen"`
	NoWatch bool   `arg:"--no-watch,env:SLACKRELAY_NO_WATCH" help:"do not reload the config file when it changes"`
}

func main() {
	arg.MustParse(&args)

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("slackrelay starting", "config", args.Config)

	cfg, err := config.Load(args.Config)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Relay.SlogLevel())

	listen := cfg.Relay.Listen
	if args.Listen != "" {
		listen = args.Listen
	}

	slog.Info("config loaded",
		"webhook", slack.RedactURL(cfg.Relay.ResolvedWebhookURL()),
		"listen", listen,
		"suppression_minutes", cfg.Relay.SuppressionMinutes,
		"auth_mode", cfg.Relay.Auth.Mode,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()

	r, err := reactor.FromConfig(cfg.Relay, m)
	if err != nil {
		slog.Error("failed to build reactor", "err", err)
		os.Exit(1)
	}
	var current atomic.Pointer[reactor.Reactor]
	current.Store(r)

	// A reload starts a new reactor with empty suppression state. Listen
	// address and auth settings need a restart.
	if !args.NoWatch {
		go func() {
			err := config.Watch(ctx, args.Config, func(next *config.Config) {
				nr, err := reactor.FromConfig(next.Relay, m)
				if err != nil {
					slog.Error("reload rejected, keeping previous reactor", "err", err)
					return
				}
				level.Set(next.Relay.SlogLevel())
				current.Store(nr)
				slog.Info("reactor replaced",
					"webhook", slack.RedactURL(next.Relay.ResolvedWebhookURL()),
					"suppression_minutes", next.Relay.SuppressionMinutes,
				)
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	api := receiver.New(
		func() receiver.Relay { return current.Load() },
		m,
		receiver.Auth{
			Mode:   cfg.Relay.Auth.Mode,
			Header: cfg.Relay.Auth.EffectiveHeader(),
			Key:    cfg.Relay.Auth.Key(),
		},
	)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api)
	httpMux.Handle("/healthz", api)
	httpMux.Handle("/metrics", m.Handler())

	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "addr", listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("slackrelay shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
