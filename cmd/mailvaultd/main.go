package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/mixelka/mailvault/internal/auth"
	"github.com/mixelka/mailvault/internal/config"
	"github.com/mixelka/mailvault/internal/event"
	"github.com/mixelka/mailvault/internal/imapgw"
	"github.com/mixelka/mailvault/internal/kv"
	"github.com/mixelka/mailvault/internal/notify"
	"github.com/mixelka/mailvault/internal/server"
	"github.com/mixelka/mailvault/internal/vault"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting mailvault", "driver", cfg.DatabaseDriver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the key-value store
	store, err := kv.Open(ctx, cfg.DatabaseDriver, cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Event bus with optional Telegram notifications
	bus := event.NewBus(logger)
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Error("failed to create telegram notifier", "error", err)
			os.Exit(1)
		}
		bus.Subscribe(tg)
		go tg.Run(ctx)
	}

	// Create the vault and run one-time initialization
	v := vault.New(store, bus, logger, cfg.AliasDomain)
	if err := v.Bootstrap(ctx); err != nil {
		logger.Error("failed to bootstrap vault", "error", err)
		os.Exit(1)
	}

	authMgr := auth.New(cfg.AuthSecret)

	// Optional IMAP gateway
	if cfg.IMAPListenAddr != "" {
		be := imapgw.NewBackend(v, authMgr, logger)
		go func() {
			if err := imapgw.Serve(cfg.IMAPListenAddr, be); err != nil {
				logger.Error("imap gateway stopped", "error", err)
			}
		}()
	}

	// HTTP API
	api := server.New(v, authMgr, logger)

	// Setup graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		logger.Info("received shutdown signal", "signal", sig)
		cancel()
		if err := api.Shutdown(); err != nil {
			logger.Error("failed to shut down api", "error", err)
		}
	}()

	if err := api.Listen(cfg.ListenAddr); err != nil {
		logger.Error("api stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("mailvault stopped")
}

func setupLogger(level, format string) *slog.Logger {
	var handler slog.Handler
	logLevel := parseLevel(level)

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		// Pretty colored output for console
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
