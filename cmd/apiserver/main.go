// Command apiserver runs the H2Siting HTTP API and, when enabled, the gRPC
// feasibility service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/H2Siting/internal/config"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	grpcPort := flag.Int("grpc-port", 0, "gRPC server port (overrides config)")
	flag.Parse()

	cfg, fromFile, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}
	if *grpcPort > 0 {
		cfg.GRPC.Port = *grpcPort
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	if fromFile {
		config.Watch(*configPath, func(next *config.Config) {
			if logging.SetLevel(logger, next.Log.Level) {
				logger.Info("log level reloaded", logging.String("level", next.Log.Level))
			}
		}, func(err error) {
			logger.Warn("ignoring invalid configuration change", logging.Err(err))
		})
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting H2Siting API server",
		logging.String("version", config.Version),
		logging.String("http_addr", cfg.HTTPAddr()),
		logging.Bool("grpc_enabled", cfg.GRPC.Enabled),
	)

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(app.httpServer.Start)
	if app.grpcServer != nil {
		g.Go(app.grpcServer.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if app.grpcServer != nil {
			if err := app.grpcServer.Stop(shutdownCtx); err != nil {
				logger.Error("gRPC server shutdown error", logging.Err(err))
			}
		}
		return app.httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("servers stopped")
	return nil
}

// loadConfig reads path when it exists and otherwise builds the
// configuration from H2SITING_* variables and defaults.
func loadConfig(path string) (*config.Config, bool, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := config.Load(path)
		return cfg, true, err
	}
	cfg, err := config.LoadFromEnv()
	return cfg, false, err
}

//Personal.AI order the ending
