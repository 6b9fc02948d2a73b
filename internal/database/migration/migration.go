package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"userregistry/internal/database"
)

type migrationStep struct {
	Name string
	SQL  string
}

// The DDL is portable between PostgreSQL and SQLite.
var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  ssn           VARCHAR(255) PRIMARY KEY,
  first_name    VARCHAR(255),
  last_name     VARCHAR(255),
  date_of_birth DATE
);`,
	},
	{
		Name: "create_index_users_last_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_last_name ON users (last_name);`,
	},
	{
		Name: "create_index_users_first_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_first_name ON users (first_name);`,
	},
}

func sentinelQuery(dialect database.Dialect) string {
	if dialect == database.SQLite {
		return "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'users')"
	}
	return "SELECT to_regclass('public.users') IS NOT NULL"
}

// EnsureMigrated checks if the 'users' table exists and creates the schema if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dialect database.Dialect, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With("component", "database", "db_host", dbHost, "dialect", string(dialect))

	log.InfoContext(ctx, "db_migration_check", "status", "starting")

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery(dialect)).Scan(&exists); err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.InfoContext(ctx, "db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.InfoContext(ctx, "db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.InfoContext(ctx, "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
