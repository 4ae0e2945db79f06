package exporters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mrlokans/watchlist/internal/entities"
)

const (
	backupPrefix     = "watchlist-"
	backupTimeLayout = "20060102-150405"
)

// JSONExporter writes snapshots as the same JSON document served by the
// export endpoint, so every file it produces can be fed back to import.
type JSONExporter struct {
	source SnapshotSource
	// BackupDir receives timestamped files from ExportBackup.
	BackupDir string
	// Keep is the number of backup files retained by ExportBackup. Zero keeps all.
	Keep int
	now  func() time.Time
}

func NewJSONExporter(source SnapshotSource, backupDir string, keep int) *JSONExporter {
	return &JSONExporter{
		source:    source,
		BackupDir: backupDir,
		Keep:      keep,
		now:       time.Now,
	}
}

// WriteSnapshot encodes snap as indented JSON.
func WriteSnapshot(w io.Writer, snap *entities.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ExportToFile writes the current snapshot to path, replacing it atomically.
func (e *JSONExporter) ExportToFile(ctx context.Context, path string) (ExportResult, error) {
	snap, err := e.source.ExportAll(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".watchlist-export-*")
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteSnapshot(tmp, snap); err != nil {
		tmp.Close()
		return ExportResult{}, err
	}
	if err := tmp.Close(); err != nil {
		return ExportResult{}, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return ExportResult{}, fmt.Errorf("failed to move export into place: %w", err)
	}

	return ExportResult{
		Path:   path,
		Users:  len(snap.Users),
		Movies: len(snap.Movies),
	}, nil
}

// ExportBackup writes a timestamped snapshot into BackupDir and prunes the
// oldest backups beyond Keep.
func (e *JSONExporter) ExportBackup(ctx context.Context) (ExportResult, error) {
	if e.BackupDir == "" {
		return ExportResult{}, fmt.Errorf("backup directory not configured")
	}

	name := backupPrefix + e.now().UTC().Format(backupTimeLayout) + ".json"
	result, err := e.ExportToFile(ctx, filepath.Join(e.BackupDir, name))
	if err != nil {
		return result, err
	}

	pruned, err := e.pruneBackups()
	if err != nil {
		log.Printf("Failed to prune old backups: %v", err)
	}
	result.Pruned = pruned

	log.Printf("Backup written to %s (%d users, %d movies)", result.Path, result.Users, result.Movies)
	return result, nil
}

// Backups lists backup file names in BackupDir, oldest first.
func (e *JSONExporter) Backups() ([]string, error) {
	entries, err := os.ReadDir(e.BackupDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}
	// The timestamp layout sorts lexically.
	sort.Strings(names)
	return names, nil
}

func (e *JSONExporter) pruneBackups() (int, error) {
	if e.Keep <= 0 {
		return 0, nil
	}

	names, err := e.Backups()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for len(names) > e.Keep {
		if err := os.Remove(filepath.Join(e.BackupDir, names[0])); err != nil {
			return pruned, fmt.Errorf("failed to remove backup %s: %w", names[0], err)
		}
		names = names[1:]
		pruned++
	}
	return pruned, nil
}
