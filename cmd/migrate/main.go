package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/lib/pq"

	"climate-analytics/internal/config"
	"climate-analytics/pkg/logging"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	migrationsDir := flag.String("dir", "migrations", "Directory containing migration files")
	flag.Parse()

	if *direction != "up" && *direction != "down" {
		fmt.Fprintf(os.Stderr, "Invalid direction %q: expected up or down\n", *direction)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("climate-migrate", "1.0.0", logging.ParseLevel(cfg.Logging.Level))
	ctx := context.Background()

	files, err := migrationFiles(*migrationsDir, *direction)
	if err != nil {
		logger.Fatal(ctx, "[MIGRATE_ERROR] Failed to discover migrations", logging.Fields{
			"dir": *migrationsDir,
		}, err)
	}

	// Connect to database
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal(ctx, "[MIGRATE_ERROR] Failed to open database connection", logging.Fields{}, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal(ctx, "[MIGRATE_ERROR] Failed to ping database", logging.Fields{
			"db_host": cfg.Database.Host,
			"db_name": cfg.Database.Database,
		}, err)
	}

	logger.Info(ctx, "[MIGRATE_START] Applying migrations", logging.Fields{
		"direction": *direction,
		"dir":       *migrationsDir,
		"count":     len(files),
	})

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			logger.Fatal(ctx, "[MIGRATE_ERROR] Failed to read migration file", logging.Fields{
				"file": file,
			}, err)
		}

		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			logger.Fatal(ctx, "[MIGRATE_ERROR] Migration failed", logging.Fields{
				"file": file,
			}, err)
		}

		logger.Info(ctx, "[MIGRATE_APPLIED] Migration applied", logging.Fields{
			"file": file,
		})
	}

	logger.Info(ctx, "[MIGRATE_COMPLETE] All migrations applied", logging.Fields{
		"direction": *direction,
		"count":     len(files),
	})
}

// migrationFiles discovers the migration scripts for a direction. Up
// migrations apply in ascending filename order, down migrations in
// descending order so later schema changes unwind first.
func migrationFiles(dir, direction string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*."+direction+".sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan migrations directory: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no %s migrations found in %s", direction, dir)
	}

	sort.Strings(files)
	if direction == "down" {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}

	return files, nil
}
