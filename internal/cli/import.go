package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/watchlist/internal/audit"
	"github.com/mrlokans/watchlist/internal/config"
	"github.com/mrlokans/watchlist/internal/database"
	"github.com/mrlokans/watchlist/internal/database/snapshot"
	"github.com/mrlokans/watchlist/internal/services"
)

// ImportCommand replaces the whole dataset with the contents of an exported document.
type ImportCommand struct {
	FilePath     string
	DatabasePath string
	AuditDir     string
	DryRun       bool

	stdout io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{stdout: os.Stdout}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON document produced by 'export' (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the watchlist database file")
	fs.StringVar(&cmd.AuditDir, "audit-dir", "", "Keep a copy of the document and the replaced data in this directory")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the document and report counts without changing the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Replace ALL users and movies with the contents of the document.\n")
		fmt.Fprintf(os.Stderr, "The replace is all-or-nothing: on failure the previous data is kept.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file backup.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -file backup.json -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportCommand) Run() error {
	return cmd.run(context.Background())
}

func (cmd *ImportCommand) run(ctx context.Context) error {
	document, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	if cmd.DryRun {
		result, err := services.ValidateDocument(document)
		if err != nil {
			return fmt.Errorf("invalid import document: %w", err)
		}
		fmt.Fprintln(cmd.stdout, "DRY RUN - no changes made")
		cmd.printSummary(result)
		return nil
	}

	db, err := database.NewDatabase(cmd.DatabasePath,
		database.WithSeedUsers(nil),
		database.WithLogLevel(logger.Silent),
	)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var auditor services.ImportAuditor
	if cmd.AuditDir != "" {
		auditor = audit.NewAuditor(cmd.AuditDir)
	}

	snapshots := services.NewSnapshotService(snapshot.NewRepository(db.DB), auditor)
	result, err := snapshots.ImportAll(ctx, document)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.printSummary(result)
	if result.AuditID != "" {
		fmt.Fprintf(cmd.stdout, "Audit id: %s\n", result.AuditID)
	}
	return nil
}

func (cmd *ImportCommand) printSummary(result services.ImportResult) {
	fmt.Fprintf(cmd.stdout, "Users imported: %d (skipped %d)\n", result.UsersImported, result.UsersSkipped)
	fmt.Fprintf(cmd.stdout, "Movies imported: %d (skipped %d)\n", result.MoviesImported, result.MoviesSkipped)
}
