package services

import (
	"context"
	"log"
	"time"

	"github.com/mrlokans/watchlist/internal/entities"
)

// SnapshotService exports the whole watchlist dataset and restores it from
// an exported document.
type SnapshotService struct {
	store   SnapshotStore
	auditor ImportAuditor
	now     func() time.Time
}

// NewSnapshotService creates a new SnapshotService. auditor may be nil.
func NewSnapshotService(store SnapshotStore, auditor ImportAuditor) *SnapshotService {
	return &SnapshotService{
		store:   store,
		auditor: auditor,
		now:     time.Now,
	}
}

// ExportAll returns every user and every movie. Each movie's user is part
// of the snapshot.
func (s *SnapshotService) ExportAll(ctx context.Context) (*entities.Snapshot, error) {
	return s.store.Dump(ctx)
}

// ImportAll replaces the dataset with the users and movies of document.
//
// A document that is not an object with "users" and "movies" arrays fails
// with a validation error before anything is touched. Malformed items are
// skipped; movies without added_at get the import time. The replace itself
// is a single transaction, so a failing insert leaves the previous data in
// place.
func (s *SnapshotService) ImportAll(ctx context.Context, document []byte) (ImportResult, error) {
	snap, result, err := parseDocument(document, s.now().UTC())
	if err != nil {
		return ImportResult{}, err
	}

	if s.auditor != nil {
		result.AuditID = s.recordImport(ctx, document)
	}

	if err := s.store.Replace(ctx, snap); err != nil {
		log.Printf("Import failed, previous data kept: %v", err)
		return result, err
	}

	log.Printf("Imported %d users and %d movies (skipped %d users, %d movies)",
		result.UsersImported, result.MoviesImported, result.UsersSkipped, result.MoviesSkipped)
	return result, nil
}

// recordImport saves the document and the data it replaces. Failures are
// logged and do not block the import.
func (s *SnapshotService) recordImport(ctx context.Context, document []byte) string {
	previous, err := s.store.Dump(ctx)
	if err != nil {
		log.Printf("Failed to read current data for import audit: %v", err)
		previous = nil
	}

	record, err := s.auditor.RecordImport(document, previous)
	if err != nil {
		log.Printf("Failed to save import audit: %v", err)
		return ""
	}
	return record.ID
}
