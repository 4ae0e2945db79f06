package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	usersController := NewUsersController(cfg.Users)
	moviesController := NewMoviesController(cfg.Watchlist)
	searchController := NewSearchController(cfg.Search)
	snapshotController := NewSnapshotController(cfg.Snapshots)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	// Users and their watchlists
	api.GET("/users", usersController.ListUsers)
	api.GET("/users/:id/movies", moviesController.ListMovies)
	api.POST("/users/:id/movies", moviesController.AddMovie)
	api.POST("/users/:id/movies/manual", moviesController.AddManualMovie)
	api.DELETE("/users/:id/movies/:movieId", moviesController.RemoveMovie)

	// Title search
	api.GET("/search", searchController.Search)

	// Whole-dataset export and import
	api.GET("/export", snapshotController.Export)
	api.POST("/import", snapshotController.Import)

	// Background tasks
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue)
		api.POST("/backups", tasksController.CreateBackup)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	// Scheduled maintenance
	if cfg.Maintenance != nil {
		maintenanceController := NewMaintenanceController(cfg.Maintenance)
		api.GET("/maintenance", maintenanceController.ListJobs)
		api.POST("/maintenance/:name/run", maintenanceController.RunJob)
	}

	return router
}
