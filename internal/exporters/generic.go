package exporters

import (
	"context"

	"github.com/mrlokans/watchlist/internal/entities"
)

// SnapshotSource produces a full export of the watchlist.
type SnapshotSource interface {
	ExportAll(ctx context.Context) (*entities.Snapshot, error)
}

type ExportResult struct {
	Path   string `json:"path"`
	Users  int    `json:"users"`
	Movies int    `json:"movies"`
	Pruned int    `json:"pruned"`
}
