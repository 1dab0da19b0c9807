package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"scorecast/artifact"
	"scorecast/config"
	shttp "scorecast/http"
	"scorecast/logging"
	"scorecast/ml"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scorecast:", err)
		if errors.Is(err, artifact.ErrArtifactLoad) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("SCORECAST_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// 2. Logger
	logger := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Artifacts; any load failure aborts startup
	store, closeStore, err := artifact.OpenStore(cfg.Artifacts.Source, cfg.Artifacts.Dir, cfg.Artifacts.DBPath)
	if err != nil {
		return fmt.Errorf("%w: %v", artifact.ErrArtifactLoad, err)
	}
	defer closeStore()

	bundle, err := artifact.Load(ctx, store, artifact.Options{
		AllowPartialEnsemble: cfg.Artifacts.AllowPartial,
		Logger:               logger.Named("artifact"),
	})
	if err != nil {
		logger.Error("artifact load failed", zap.Error(err))
		return err
	}

	predictor, err := ml.NewPredictor(bundle, ml.WithLogger(logger.Named("predictor")))
	if err != nil {
		return err
	}

	// 4. Live log level changes
	if err := config.Watch(ctx, configPath, logger.Named("config"), func(c *config.Config) {
		logger.SetLevel(c.Log.Level)
	}); err != nil {
		logger.Warn("config watch disabled", zap.Error(err))
	}

	// 5. HTTP server
	server, err := shttp.NewServer(shttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		CacheSize:      cfg.Cache.Size,
		AllowedOrigins: cfg.Http.AllowedOrigins,
	}, predictor, logger.Logger)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- server.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("exiting")
	return nil
}
