package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/async"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/export"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/ingest"
	repo "github.com/PoYuTsai/TravelAPP-sub000/internal/repository"
	svc "github.com/PoYuTsai/TravelAPP-sub000/internal/server"
	ingestsvc "github.com/PoYuTsai/TravelAPP-sub000/internal/services/ingest"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/trips"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	addr := cfg.Server.GRPCAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := svc.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		os.Exit(1)
	}
	defer svc.CloseDB(db, logger)

	if err := svc.PingDB(ctx, db, logger, 5*time.Second); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(svc.UnaryInterceptor(logger, cfg.Server.RequestTimeout)))

	itineraryRepo := repo.NewItineraryRepository(db, logger)
	quotationRepo := repo.NewQuotationRepository(db, logger)
	tripService := trips.NewService(itineraryRepo, quotationRepo, cfg.Parse.DefaultYear, logger)
	exportService := export.NewService(itineraryRepo, export.PDFOptions{FontPath: cfg.Export.FontPath}, logger)

	ingestor := ingest.NewFSIngestor(tripService, cfg.Parse.DefaultYear, logger)
	queue := async.NewProcessorQueue(ingestor, logger,
		async.WithWorkers(cfg.Ingest.Workers),
		async.WithQueueSize(cfg.Ingest.Queue),
		async.WithProcessTimeout(time.Minute),
	)
	ingestionService := ingestsvc.NewService(ingestor, queue, logger)

	itineraryServer := svc.NewItineraryServer(tripService, logger,
		svc.WithDefaultYear(cfg.Parse.DefaultYear),
		svc.WithExport(exportService),
		svc.WithIngest(ingestionService),
	)
	svc.RegisterItineraryServiceServer(grpcServer, itineraryServer)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(svc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	if len(cfg.Ingest.Roots) > 0 {
		go watch(ctx, cfg.Ingest, queue, logger)
	}

	logger.Info("itinerary service listening", "addr", addr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.Shutdown()
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
}

// watch feeds files that appear under the configured roots into the queue
// until ctx is done.
func watch(ctx context.Context, cfg common.IngestConfig, queue async.Queue, logger *slog.Logger) {
	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       cfg.Roots,
		InitialScan: true,
		SkipHidden:  cfg.SkipHidden,
		Debounce:    cfg.Debounce,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("watcher failed to start", "roots", cfg.Roots, "error", err)
		return
	}
	logger.Info("watching directories", "roots", cfg.Roots)

	for paths != nil || errs != nil {
		select {
		case p, ok := <-paths:
			if !ok {
				paths = nil
				continue
			}
			if err := queue.Enqueue(ctx, async.Job{Path: p, TraceID: uuid.NewString()}); err != nil {
				logger.Warn("failed to enqueue watched file", "path", p, "error", err)
			}
		case werr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Error("watcher error", "error", werr)
		}
	}
}
