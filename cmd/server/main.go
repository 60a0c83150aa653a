package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/linehook/internal/api"
	"github.com/gyaneshwarpardhi/linehook/internal/config"
	"github.com/gyaneshwarpardhi/linehook/internal/delivery"
	"github.com/gyaneshwarpardhi/linehook/internal/dispatch"
	"github.com/gyaneshwarpardhi/linehook/internal/engine"
	"github.com/gyaneshwarpardhi/linehook/internal/handler"
	"github.com/gyaneshwarpardhi/linehook/internal/platform"
	"github.com/gyaneshwarpardhi/linehook/internal/signature"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cfgPath := flag.String("config", "", "Path to bot YAML config (empty: built-in default)")
	envFile := flag.String("env-file", ".env", "Optional dotenv file with channel credentials")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Secrets ──────────────────────────────────────────────────────────────
	secrets, err := config.LoadSecrets(*envFile)
	if err != nil {
		slog.Error("failed to load channel credentials", "err", err)
		os.Exit(1)
	}

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	// ── Platform client + handlers ───────────────────────────────────────────
	client, err := platform.New(secrets.ChannelAccessToken)
	if err != nil {
		slog.Error("failed to create platform client", "err", err)
		os.Exit(1)
	}
	deps := handler.Deps{Content: client, RichMenus: client}
	reg, err := handler.Build(cfg, deps)
	if err != nil {
		slog.Error("failed to build handlers", "err", err)
		os.Exit(1)
	}
	slog.Info("handlers built", "routes", len(reg.Routes()), "commands", len(cfg.Commands))

	// ── Engine ────────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opts []engine.Option
	if cfg.Engine.LookupProfile {
		opts = append(opts, engine.WithProfileLookup(client))
	}
	eng := engine.New(ctx, dispatch.New(reg), delivery.NewChannel(client, client), cfg.Engine, opts...)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	apply := func(newCfg *config.BotConfig) error {
		if err := config.Validate(newCfg); err != nil {
			return err
		}
		newReg, err := handler.Build(newCfg, deps)
		if err != nil {
			return err
		}
		eng.SwapHandlers(newReg)
		slog.Info("handlers hot-reloaded", "commands", len(newCfg.Commands))
		return nil
	}
	loader.OnChange(func(newCfg *config.BotConfig) {
		if err := apply(newCfg); err != nil {
			slog.Warn("hot-reload skipped: config invalid", "err", err)
		}
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.New(eng, loader, signature.NewVerifier(secrets.ChannelSecret), apply),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", *addr, "webhook", cfg.Server.WebhookPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stop worker pools
	eng.Shutdown()
	slog.Info("goodbye")
}
