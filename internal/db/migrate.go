package db

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"church-admin-go/pkg/logger"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// migrationLockID keys the advisory lock that serializes migrators, so the API
// and the seed tool can start against the same database.
const migrationLockID = 7164_2024

type appliedMigration struct {
	Filename string `gorm:"primaryKey"`
}

func (appliedMigration) TableName() string {
	return "schema_migrations"
}

// Migrate applies every embedded migration that is not recorded yet, in
// filename order, inside one transaction.
func Migrate(db *gorm.DB, log logger.Logger) error {
	return migrateFS(db, migrationFiles, log)
}

func migrateFS(db *gorm.DB, fsys fs.FS, log logger.Logger) error {
	names, err := migrationNames(fsys)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", migrationLockID).Error; err != nil {
			return fmt.Errorf("lock migrations: %w", err)
		}
		if err := tx.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`).Error; err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}

		var rows []appliedMigration
		if err := tx.Find(&rows).Error; err != nil {
			return fmt.Errorf("read schema_migrations: %w", err)
		}
		done := make(map[string]bool, len(rows))
		for _, row := range rows {
			done[row.Filename] = true
		}

		pending := 0
		for _, name := range names {
			if done[name] {
				continue
			}
			if err := applyMigration(tx, fsys, name); err != nil {
				return err
			}
			pending++
			log.Info("db: migration applied", "file", name)
		}
		if pending == 0 {
			log.Debug("db: schema up to date", "migrations", len(names))
		}
		return nil
	})
}

func applyMigration(tx *gorm.DB, fsys fs.FS, name string) error {
	contents, err := fs.ReadFile(fsys, path.Join(migrationsDir, name))
	if err != nil {
		return err
	}
	if sql := strings.TrimSpace(string(contents)); sql != "" {
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return tx.Create(&appliedMigration{Filename: name}).Error
}

func migrationNames(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, migrationsDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
