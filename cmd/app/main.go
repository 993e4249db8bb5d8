package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/firesafe-io/firesafe/internal/auth"
	"github.com/firesafe-io/firesafe/internal/blob"
	"github.com/firesafe-io/firesafe/internal/config"
	"github.com/firesafe-io/firesafe/internal/database"
	"github.com/firesafe-io/firesafe/internal/database/postgres"
	"github.com/firesafe-io/firesafe/internal/extinguisher"
	"github.com/firesafe-io/firesafe/internal/facility"
	"github.com/firesafe-io/firesafe/internal/handler"
	"github.com/firesafe-io/firesafe/internal/inspection"
	"github.com/firesafe-io/firesafe/internal/scheduler"
	"github.com/firesafe-io/firesafe/internal/server"
	"github.com/firesafe-io/firesafe/internal/snapshot"
	"github.com/firesafe-io/firesafe/internal/sync"
	"github.com/firesafe-io/firesafe/internal/worker"
)

const (
	shutdownTimeout = 15 * time.Second

	dueScanInterval = time.Hour
	workerCount     = 1
	workerQueueSize = 4
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	handler.InitValidator()

	pool, err := database.NewPool(cfg.GetDBConnString(),
		database.DefaultMaxConnections, 5*time.Minute, 30*time.Minute)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(pool); err != nil {
		slog.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	blobs, err := blob.NewFilesystemStore(cfg.BlobDir)
	if err != nil {
		slog.Error("Failed to initialize blob store", "error", err)
		os.Exit(1)
	}

	// Repositories
	companyRepo := postgres.NewCompanyRepository(pool)
	ownerRepo := postgres.NewOwnerRepository(pool)
	managerRepo := postgres.NewManagerRepository(pool)
	buildingRepo := postgres.NewBuildingRepository(pool)
	faultRepo := postgres.NewFaultRepository(pool)
	extinguisherRepo := postgres.NewExtinguisherRepository(pool)
	inspectionRepo := postgres.NewInspectionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	syncRepo := postgres.NewSyncRepository(pool)

	// Snapshot pipeline
	recalc := snapshot.NewRecalculator(extinguisherRepo)
	exporter := snapshot.NewExporter(companyRepo, ownerRepo, managerRepo,
		buildingRepo, faultRepo, extinguisherRepo, blobs, cfg.SnapshotTmpDir)
	importer := snapshot.NewImporter(syncRepo, blobs, recalc, cfg.SnapshotTmpDir)

	// Services
	facilityService := facility.NewService(companyRepo, ownerRepo, managerRepo,
		buildingRepo, faultRepo, blobs)
	extinguisherService := extinguisher.NewService(extinguisherRepo, buildingRepo, recalc)
	inspectionService := inspection.NewService(inspectionRepo, buildingRepo, blobs)
	syncService := sync.NewService(companyRepo, exporter, importer)

	resolver := auth.NewResolver(userRepo, companyRepo)

	// Background maintenance
	workerPool := worker.NewPool(workerCount, workerQueueSize)
	workerPool.Start()
	defer workerPool.Stop()

	sched := scheduler.New(workerPool)
	sched.Schedule(dueScanInterval, worker.NewDueScanJob(extinguisherRepo))
	defer sched.Stop()

	srv := server.NewServer(cfg.Port, cfg.Version, resolver, pool,
		facilityService, extinguisherService, inspectionService, syncService)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
