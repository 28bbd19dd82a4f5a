//go:build !embed_migrations

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Development builds read migrations straight from the repo checkout.
// COMPLY_MIGRATIONS_DIR points the tooling at a different directory.
const defaultMigrationsDir = "db/migrations"

func migrationsDir() string {
	if dir := os.Getenv("COMPLY_MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return defaultMigrationsDir
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	dir := migrationsDir()
	fmt.Printf("Applying migrations from file://%s\n", dir)
	return migrate.New("file://"+dir, dbURL)
}

// listMigrationFiles returns the up migrations on disk. The db status
// command uses the count to report how many steps are available.
func listMigrationFiles() ([]string, error) {
	entries, err := os.ReadDir(migrationsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
