package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/pkg/db/migrations"
	"github.com/fadedpez/neonvegas/pkg/repositories/ledger"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	statusCmd := flag.NewFlagSet("status", flag.ExitOnError)
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	statusDB := statusCmd.String("db", "data/neonvegas.db", "Path to SQLite ledger")
	migrateDB := migrateCmd.String("db", "data/neonvegas.db", "Path to SQLite ledger")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "status":
		statusCmd.Parse(os.Args[2:])
		showStatus(ctx, *statusDB)

	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		applyMigrations(ctx, *migrateDB)

	case "help":
		printUsage()

	default:
		fmt.Printf("Error: Unknown command '%s'\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/migration status  [-db PATH]  - List ledger migrations")
	fmt.Println("  go run ./cmd/migration migrate [-db PATH]  - Apply pending ledger migrations")
	fmt.Println("  go run ./cmd/migration help                - Show this help")
}

func open(path string) (*sql.DB, *migrations.Migrator) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	return db, migrations.NewMigrator(db, logging.Default)
}

func showStatus(ctx context.Context, path string) {
	db, migrator := open(path)
	defer db.Close()

	if err := migrator.Initialize(ctx); err != nil {
		log.Fatalf("Error initializing migrations table: %v", err)
	}
	applied, err := migrator.Applied(ctx)
	if err != nil {
		log.Fatalf("Error reading applied migrations: %v", err)
	}

	ordered := append([]migrations.Migration(nil), ledger.Migrations...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })
	for _, m := range ordered {
		mark := "pending"
		if applied[m.Version] {
			mark = "applied"
		}
		fmt.Printf("%03d  %-8s %s\n", m.Version, mark, m.Description)
	}
}

func applyMigrations(ctx context.Context, path string) {
	db, migrator := open(path)
	defer db.Close()

	count, err := migrator.MigrateUp(ctx, ledger.Migrations)
	if err != nil {
		log.Fatalf("Error applying migrations: %v", err)
	}
	fmt.Printf("Applied %d migration(s) to %s\n", count, path)
}
