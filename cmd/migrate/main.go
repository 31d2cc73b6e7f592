package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"interviewbuddy/adapters/postgres"
	"interviewbuddy/internal/migration"
)

// Imports reports written by the file store (<user id>_reports.json) into
// postgres. Accounts must already exist; their reports are otherwise skipped.
func main() {
	log, _ := zap.NewDevelopment()
	defer log.Sync()

	if len(os.Args) < 3 {
		log.Fatal("Usage: migrate <database_url> <reports_dir>")
	}
	databaseURL := os.Args[1]
	reportsDir := os.Args[2]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.NewRunner().WithLogger(log).Run(ctx, db); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}

	importer := migration.NewLegacyImporter(postgres.NewUserRepository(db), postgres.NewReportRepository(db), log)
	summary, err := importer.ImportDir(ctx, reportsDir)
	if err != nil {
		log.Fatal("Import failed", zap.Error(err), zap.Any("summary", summary))
	}
	log.Info("Migration complete",
		zap.String("dir", reportsDir),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Duplicates+summary.Orphaned+summary.Invalid))
}
