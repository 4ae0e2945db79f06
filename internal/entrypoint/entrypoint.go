package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/watchlist/internal/audit"
	"github.com/mrlokans/watchlist/internal/config"
	"github.com/mrlokans/watchlist/internal/database"
	"github.com/mrlokans/watchlist/internal/database/movies"
	"github.com/mrlokans/watchlist/internal/database/snapshot"
	"github.com/mrlokans/watchlist/internal/database/users"
	"github.com/mrlokans/watchlist/internal/exporters"
	http_controllers "github.com/mrlokans/watchlist/internal/http"
	"github.com/mrlokans/watchlist/internal/logging"
	"github.com/mrlokans/watchlist/internal/metadata"
	"github.com/mrlokans/watchlist/internal/scheduler"
	"github.com/mrlokans/watchlist/internal/services"
	"github.com/mrlokans/watchlist/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT/SIGTERM, then give in-flight requests the configured timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener so no task starts mid-shutdown
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	log.Printf("Starting Watchlist v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path, database.WithSeedUsers(cfg.Database.SeedUsers))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Create auditor for keeping copies of import documents
	auditor := audit.NewAuditor(cfg.Audit.Dir)

	watchlist := services.NewWatchlistService(movies.NewRepository(db.DB))
	snapshots := services.NewSnapshotService(snapshot.NewRepository(db.DB), auditor)
	exporter := exporters.NewJSONExporter(snapshots, cfg.Backup.Dir, cfg.Backup.Keep)

	provider, err := metadata.NewProvider(metadata.Options{
		Name:          cfg.Search.Provider,
		TVMazeBaseURL: cfg.Search.TVMazeBaseURL,
		OMDbBaseURL:   cfg.Search.OMDbBaseURL,
		OMDbAPIKey:    cfg.Search.OMDbAPIKey,
		Timeout:       cfg.Search.Timeout,
		RetryAttempts: cfg.Search.RetryAttempts,
	})
	if err != nil {
		log.Fatalf("Failed to initialize search provider: %v", err)
	}
	log.Printf("Search provider: %s", provider.Name())

	// Initialize task queue and maintenance scheduler if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewBackupSnapshotQueue(exporter),
			tasks.NewCleanupAuditFilesQueue(auditor),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		maintenance = newMaintenanceScheduler(cfg, taskClient)
		if maintenance != nil {
			maintenance.Start(taskCtx)
		}
	} else {
		log.Printf("Task queue disabled: backups and audit cleanup will not run")
	}

	routerCfg := http_controllers.RouterConfig{
		Users:     users.NewRepository(db.DB),
		Watchlist: watchlist,
		Snapshots: snapshots,
		Search:    provider,
		Database:  db,
		Version:   version,
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}
	if maintenance != nil {
		routerCfg.Maintenance = maintenance
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// newMaintenanceScheduler registers the periodic jobs enabled in cfg.
// Returns nil when there is nothing to schedule.
func newMaintenanceScheduler(cfg *config.Config, enqueuer scheduler.Enqueuer) *scheduler.MaintenanceScheduler {
	s := scheduler.NewMaintenanceScheduler(enqueuer)
	jobs := 0

	if cfg.Backup.Enabled && cfg.Backup.Schedule != "" {
		if err := s.Add("backup", cfg.Backup.Schedule, tasks.BackupSnapshotTask{Trigger: "schedule"}); err != nil {
			log.Printf("WARNING: backups not scheduled: %v", err)
		} else {
			log.Printf("Backups scheduled (%s) into %s, keeping %d", cfg.Backup.Schedule, cfg.Backup.Dir, cfg.Backup.Keep)
			jobs++
		}
	}

	if cfg.Audit.CleanupSchedule != "" && cfg.Audit.RetentionDays > 0 {
		task := tasks.CleanupAuditFilesTask{RetentionDays: cfg.Audit.RetentionDays}
		if err := s.Add("audit-cleanup", cfg.Audit.CleanupSchedule, task); err != nil {
			log.Printf("WARNING: audit cleanup not scheduled: %v", err)
		} else {
			log.Printf("Audit cleanup scheduled (%s), keeping %d days", cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
			jobs++
		}
	}

	if jobs == 0 {
		return nil
	}
	return s
}
