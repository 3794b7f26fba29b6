package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"google.golang.org/grpc"

	"github.com/rl1809/pos-journal/internal/adapter/catalog"
	"github.com/rl1809/pos-journal/internal/adapter/handler"
	"github.com/rl1809/pos-journal/internal/config"
	"github.com/rl1809/pos-journal/internal/core/service"
	"github.com/rl1809/pos-journal/internal/logger"
	"github.com/rl1809/pos-journal/internal/metrics"
)

const serviceName = "pos-journal"

func main() {
	log := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		log.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	log = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server exited with error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	items, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	log.Info(log.WithField(ctx, "items", items.Len()), "catalog loaded")

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeStore())
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	posService := service.NewPOSService(items, store,
		service.WithLocation(loc),
		service.WithLogger(log),
		service.WithMetrics(metrics.NewPOSMetrics(reg)),
		service.WithSaveTimeout(cfg.Store.WriteTimeout),
	)
	// A failed load starts an empty journal; the service has already logged it.
	_ = posService.Load(ctx)

	var grpcServer *grpc.Server
	errCh := make(chan error, 2)

	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			return err
		}

		srv, healthServer := handler.NewGRPCServer(handler.NewGRPCHandler(posService, log))
		defer healthServer.Shutdown()
		grpcServer = srv

		go func() {
			log.Info(log.WithField(ctx, "addr", cfg.GRPC.Addr), "gRPC server listening")
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: handler.NewHTTPHandler(posService, log, reg).Routes(),
	}

	go func() {
		log.Info(log.WithField(ctx, "addr", cfg.HTTP.Addr), "HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down")
	case err = <-errCh:
		log.Error(context.Background(), "server failed", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	err = multierr.Append(err, httpServer.Shutdown(shutdownCtx))
	log.Info(shutdownCtx, "HTTP server stopped")

	if grpcServer != nil {
		grpcServer.GracefulStop()
		log.Info(shutdownCtx, "gRPC server stopped")
	}

	if saveErr := posService.Save(shutdownCtx); saveErr != nil {
		err = multierr.Append(err, saveErr)
	}
	return err
}
