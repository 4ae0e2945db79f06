package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/watchlist/internal/config"
	"github.com/mrlokans/watchlist/internal/database"
	"github.com/mrlokans/watchlist/internal/database/snapshot"
	"github.com/mrlokans/watchlist/internal/exporters"
	"github.com/mrlokans/watchlist/internal/services"
)

// ExportCommand writes the whole watchlist dataset as a JSON document.
type ExportCommand struct {
	DatabasePath string
	OutputPath   string

	stdout io.Writer
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{stdout: os.Stdout}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the watchlist database file")
	fs.StringVar(&cmd.OutputPath, "out", "", "Write the document to this file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export all users and movies as JSON. The output can be fed back to 'import'.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export -out backup.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -db /data/watchlist.db > backup.json\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *ExportCommand) Run() error {
	return cmd.run(context.Background())
}

func (cmd *ExportCommand) run(ctx context.Context) error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database not found: %s", cmd.DatabasePath)
	}

	db, err := database.NewDatabase(cmd.DatabasePath,
		database.WithSeedUsers(nil),
		database.WithLogLevel(logger.Silent),
	)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	snapshots := services.NewSnapshotService(snapshot.NewRepository(db.DB), nil)

	if cmd.OutputPath == "" {
		snap, err := snapshots.ExportAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		return exporters.WriteSnapshot(cmd.stdout, snap)
	}

	absPath, err := filepath.Abs(cmd.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for output: %w", err)
	}

	exporter := exporters.NewJSONExporter(snapshots, "", 0)
	result, err := exporter.ExportToFile(ctx, absPath)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Exported %d users and %d movies to %s\n", result.Users, result.Movies, result.Path)
	return nil
}
