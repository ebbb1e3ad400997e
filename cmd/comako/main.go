// Package main implements the COMAKO EDI processing service: it
// receives raw EDIFACT interchanges from NATS, validates and converts
// them, and publishes canonical documents, validation reports and
// APERAK acknowledgments back to the bus.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/debuggerone/comako/config"
	"github.com/debuggerone/comako/metric"
	"github.com/debuggerone/comako/natsclient"
	"github.com/debuggerone/comako/pipeline"
	"github.com/debuggerone/comako/pkg/retry"
)

const (
	version = "0.1.0"
	appName = "comako"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	validateOnly := flag.Bool("validate", false, "validate configuration and exit")
	shutdownTimeout := flag.Duration("shutdown-timeout", 30*time.Second, "graceful shutdown timeout")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s version %s\n", appName, version)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *validateOnly {
		slog.Info("configuration is valid")
		return nil
	}

	logger := setupLogger(cfg.Service.LogLevel)
	slog.SetDefault(logger)
	logger.Info("starting COMAKO EDI service",
		"version", version,
		"nats_url", cfg.NATS.URL,
		"inbound_subject", cfg.NATS.InboundSubject,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := metric.NewMetricsRegistry()

	client, err := natsclient.NewClient(cfg.NATS.URL,
		natsclient.WithName(cfg.Service.Name),
		natsclient.WithLogger(logger),
		natsclient.WithMaxReconnects(cfg.NATS.MaxReconnects),
		natsclient.WithReconnectWait(cfg.NATS.ReconnectWait),
		natsclient.WithTimeout(cfg.NATS.Timeout),
		natsclient.WithReconnectCallback(func() {
			registry.CoreMetrics().RecordNATSReconnect()
		}),
	)
	if err != nil {
		return fmt.Errorf("create NATS client: %w", err)
	}

	if err := retry.Do(ctx, retry.Persistent(), func() error {
		return client.Connect(ctx)
	}); err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer func() { _ = client.Close() }()
	registry.CoreMetrics().RecordNATSStatus(true)

	service := pipeline.NewService(cfg, client, registry, logger)
	if err := service.Start(ctx); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	var metricsServer *metric.Server
	if cfg.Metrics.Enabled {
		metricsServer = metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		g.Go(func() error {
			logger.Info("metrics server listening", "address", metricsServer.Address())
			return metricsServer.Start()
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				status := client.Status()
				registry.CoreMetrics().RecordNATSStatus(client.IsConnected())
				registry.CoreMetrics().RecordNATSRTT(status.RTT)
			}
		}
	})

	<-gctx.Done()
	logger.Info("shutting down", "timeout", *shutdownTimeout)

	if err := service.Stop(*shutdownTimeout); err != nil {
		logger.Warn("pipeline stop failed", "error", err)
	}
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("metrics server stop failed", "error", err)
		}
		cancel()
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel == slog.LevelDebug,
	})
	return slog.New(handler).With(
		"service", appName,
		"version", version,
		"pid", os.Getpid(),
	)
}
