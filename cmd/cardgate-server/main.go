package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cardgate/cardgate/internal/config"
	"github.com/cardgate/cardgate/internal/db"
	"github.com/cardgate/cardgate/internal/gate/service"
	"github.com/cardgate/cardgate/internal/gate/store/sqlite"
	"github.com/cardgate/cardgate/internal/gate/types"
	"github.com/cardgate/cardgate/internal/httpapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "cardgate.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, conn); err != nil {
			return err
		}
	}

	writer := db.NewWorker(conn)
	defer writer.Close()

	// Stores
	employeeStore := sqlite.NewEmployeeStore(conn)
	deviceStore := sqlite.NewDeviceStore(conn, writer)
	readingStore := sqlite.NewReadingStore(conn, writer)
	livenessStore := sqlite.NewLivenessStore(conn, writer)

	// Services
	lookupTimeout := time.Duration(cfg.LookupTimeoutSeconds) * time.Second
	resolver := service.NewResolver(employeeStore, lookupTimeout)
	registry := service.NewDeviceRegistry(deviceStore, livenessStore, service.RegistryConfig{
		AutoProvision: cfg.AutoProvisionDevices,
		LookupTimeout: lookupTimeout,
	}, logger)
	scans := service.NewScanService(resolver, registry, readingStore, logger)

	pruner := service.NewLivenessPruner(livenessStore, service.PrunerConfig{
		RetentionDays: cfg.LivenessRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, logger)
	pruner.Start(ctx)
	defer pruner.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:  logger,
		Addr:    cfg.HTTPAddr,
		APIKey:  cfg.APIKey,
		Dialect: types.ParseDialect(cfg.ResponseDialect),
		Scans:   scans,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("dialect", cfg.ResponseDialect),
			zap.Bool("auto_provision", cfg.AutoProvisionDevices))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
