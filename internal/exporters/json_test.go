package exporters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/watchlist/internal/entities"
)

type staticSource struct {
	snap *entities.Snapshot
	err  error
}

func (s *staticSource) ExportAll(ctx context.Context) (*entities.Snapshot, error) {
	return s.snap, s.err
}

func testSnapshot() *entities.Snapshot {
	year := 2010
	return &entities.Snapshot{
		Users: []entities.User{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bob"}},
		Movies: []entities.Movie{{
			ID:         1,
			UserID:     1,
			ExternalID: "tt1375666",
			Title:      "Inception",
			Year:       &year,
			AddedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		}},
	}
}

func TestWriteSnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, testSnapshot()))

	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc["users"], 2)
	require.Len(t, doc["movies"], 1)

	movie := doc["movies"][0]
	assert.Equal(t, "tt1375666", movie["external_id"])
	assert.Equal(t, "2024-01-02T03:04:05Z", movie["added_at"])
	assert.Nil(t, movie["poster_url"])
	assert.NotContains(t, movie, "User", "the association is not serialized")
}

func TestJSONExporter_ExportToFile(t *testing.T) {
	dir := t.TempDir()
	exporter := NewJSONExporter(&staticSource{snap: testSnapshot()}, "", 0)

	path := filepath.Join(dir, "nested", "export.json")
	result, err := exporter.ExportToFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, result.Path)
	assert.Equal(t, 2, result.Users)
	assert.Equal(t, 1, result.Movies)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap entities.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "Inception", snap.Movies[0].Title)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestJSONExporter_SourceError(t *testing.T) {
	exporter := NewJSONExporter(&staticSource{err: errors.New("db down")}, t.TempDir(), 0)

	_, err := exporter.ExportBackup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestJSONExporter_ExportBackup(t *testing.T) {
	dir := t.TempDir()
	exporter := NewJSONExporter(&staticSource{snap: testSnapshot()}, dir, 2)

	clock := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)
	exporter.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}

	var results []ExportResult
	for i := 0; i < 3; i++ {
		result, err := exporter.ExportBackup(context.Background())
		require.NoError(t, err)
		results = append(results, result)
	}

	assert.Equal(t, filepath.Join(dir, "watchlist-20240601-040000.json"), results[0].Path)
	assert.Equal(t, 0, results[1].Pruned)
	assert.Equal(t, 1, results[2].Pruned)

	names, err := exporter.Backups()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"watchlist-20240601-050000.json",
		"watchlist-20240601-060000.json",
	}, names)
}

func TestJSONExporter_BackupsIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "watchlist-20240101-000000.json"), []byte("{}"), 0644))

	exporter := NewJSONExporter(&staticSource{snap: testSnapshot()}, dir, 0)
	names, err := exporter.Backups()
	require.NoError(t, err)
	assert.Equal(t, []string{"watchlist-20240101-000000.json"}, names)
}

func TestJSONExporter_BackupDirRequired(t *testing.T) {
	exporter := NewJSONExporter(&staticSource{snap: testSnapshot()}, "", 0)

	_, err := exporter.ExportBackup(context.Background())
	assert.Error(t, err)
}
