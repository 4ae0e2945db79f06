package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/watchlist/internal/entities"
)

// maxImportBytes bounds the size of an import document.
const maxImportBytes = 32 << 20

// ImportResponse reports a successful import.
type ImportResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users"`
	Movies int    `json:"movies"`
}

// SnapshotController serves the export document and accepts it back on import.
type SnapshotController struct {
	snapshots SnapshotManager
}

func NewSnapshotController(snapshots SnapshotManager) *SnapshotController {
	return &SnapshotController{snapshots: snapshots}
}

// Export handles GET /api/export
// With ?download=1 the document is sent as an attachment.
func (sc *SnapshotController) Export(c *gin.Context) {
	snap, err := sc.snapshots.ExportAll(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "export")
		return
	}

	if c.Query("download") != "" {
		filename := fmt.Sprintf("watchlist-%s.json", time.Now().UTC().Format("20060102-150405"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	c.JSON(http.StatusOK, snap)
}

// Import handles POST /api/import
// The body replaces all users and movies. 400 means the document was
// rejected before anything changed; 500 means the replace was rolled back.
func (sc *SnapshotController) Import(c *gin.Context) {
	document, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		respondBadRequest(c, "failed to read request body")
		return
	}
	if len(document) > maxImportBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "import document too large")
		return
	}

	result, err := sc.snapshots.ImportAll(c.Request.Context(), document)
	if err != nil {
		if errors.Is(err, entities.ErrValidation) {
			respondStoreError(c, err, "", "import")
			return
		}
		respondInternalError(c, err, "import")
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		Status: "ok",
		Users:  result.UsersImported,
		Movies: result.MoviesImported,
	})
}
