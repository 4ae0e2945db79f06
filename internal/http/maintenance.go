package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/watchlist/internal/scheduler"
)

// MaintenanceController exposes the maintenance scheduler.
type MaintenanceController struct {
	runner MaintenanceRunner
}

// NewMaintenanceController creates a new MaintenanceController.
func NewMaintenanceController(runner MaintenanceRunner) *MaintenanceController {
	return &MaintenanceController{runner: runner}
}

// ListJobs handles GET /api/maintenance
func (mc *MaintenanceController) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": mc.runner.Jobs()})
}

// RunJob handles POST /api/maintenance/:name/run
// Enqueues the job outside its schedule and returns the task id.
func (mc *MaintenanceController) RunJob(c *gin.Context) {
	name := c.Param("name")

	taskID, err := mc.runner.RunNow(name)
	if errors.Is(err, scheduler.ErrUnknownJob) {
		respondNotFound(c, "maintenance job")
		return
	}
	if err != nil {
		respondInternalError(c, err, "run maintenance job")
		return
	}

	respondAccepted(c, name+" enqueued", gin.H{"task_id": taskID})
}
