package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/watchlist/internal/entities"
)

// Auditor keeps copies of import payloads on disk.
type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// ImportRecord names the files written for one import.
type ImportRecord struct {
	ID           string
	DocumentFile string
	PreviousFile string
}

// RecordImport stores the raw incoming document next to the snapshot it is
// about to replace. Both files share one UUID4 prefix.
func (a *Auditor) RecordImport(document []byte, previous *entities.Snapshot) (ImportRecord, error) {
	record := ImportRecord{ID: uuid.New().String()}

	documentFile, err := a.writeFile(record.ID+"-import.json", document)
	if err != nil {
		return record, err
	}
	record.DocumentFile = documentFile

	if previous != nil {
		data, err := json.MarshalIndent(previous, "", "  ")
		if err != nil {
			return record, fmt.Errorf("failed to marshal previous snapshot: %w", err)
		}
		previousFile, err := a.writeFile(record.ID+"-previous.json", data)
		if err != nil {
			return record, err
		}
		record.PreviousFile = previousFile
	}

	log.Printf("Saved import audit %s", record.ID)
	return record, nil
}

// Prune removes audit files last modified before now minus retention.
func (a *Auditor) Prune(retention time.Duration) (int, error) {
	entries, err := os.ReadDir(a.AuditDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read audit directory: %w", err)
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(a.AuditDir, entry.Name())); err != nil {
				return removed, fmt.Errorf("failed to remove audit file %s: %w", entry.Name(), err)
			}
			removed++
		}
	}
	return removed, nil
}

func (a *Auditor) writeFile(filename string, data []byte) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	path := filepath.Join(a.AuditDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}
	return filename, nil
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
