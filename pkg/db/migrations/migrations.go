package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/fadedpez/neonvegas/internal/logging"
)

const createMigrationsTableSQL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

// Migration is one versioned schema change
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrator applies migrations to a database, each at most once
type Migrator struct {
	db  *sql.DB
	log *logging.Logger
}

// NewMigrator creates a new migrator. A nil logger stays quiet.
func NewMigrator(db *sql.DB, logger *logging.Logger) *Migrator {
	if logger == nil {
		logger = logging.Discard
	}
	return &Migrator{db: db, log: logger}
}

// Initialize creates the migrations table if it doesn't exist
func (m *Migrator) Initialize(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, createMigrationsTableSQL)
	return err
}

// Applied returns the versions already applied
func (m *Migrator) Applied(ctx context.Context) (map[int]bool, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// Apply runs one migration and records it in the same transaction
func (m *Migrator) Apply(ctx context.Context, migration Migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("error applying migration %03d: %w", migration.Version, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
		migration.Version,
		migration.Description,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error recording migration %03d: %w", migration.Version, err)
	}

	return tx.Commit()
}

// MigrateUp applies every pending migration in version order and returns how
// many were applied
func (m *Migrator) MigrateUp(ctx context.Context, migrations []Migration) (int, error) {
	ordered := append([]Migration(nil), migrations...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Version < ordered[j].Version
	})
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Version == ordered[i-1].Version {
			return 0, fmt.Errorf("duplicate migration version %03d", ordered[i].Version)
		}
	}

	if err := m.Initialize(ctx); err != nil {
		return 0, err
	}

	applied, err := m.Applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range ordered {
		if applied[migration.Version] {
			m.log.Debug("[MIGRATE] %03d already applied, skipping", migration.Version)
			continue
		}

		m.log.Info("[MIGRATE] Applying %03d: %s", migration.Version, migration.Description)
		if err := m.Apply(ctx, migration); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}
