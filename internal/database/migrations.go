package database

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"

	"github.com/eastgenomics/inca-import/internal/domain"
)

// Migrator applies the versioned SQL migrations that create and evolve
// the testdirectory tables.
type Migrator struct {
	migrate *migrate.Migrate
	log     *logrus.Logger
}

// NewMigrator reads migrations from migrationsPath, a directory of
// versioned SQL files, targeting the configured database.
func NewMigrator(cfg *domain.DatabaseConfig, migrationsPath string, logger *logrus.Logger) (*Migrator, error) {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return &Migrator{migrate: m, log: logger}, nil
}

// Up applies all pending migrations.
func (mg *Migrator) Up() error {
	mg.log.Info("Applying database migrations")

	if err := mg.migrate.Up(); err != nil {
		if err == migrate.ErrNoChange {
			mg.log.Info("No pending migrations")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}
	mg.logVersion("Migrations applied")
	return nil
}

// Down rolls back the most recent migration.
func (mg *Migrator) Down() error {
	mg.log.Info("Rolling back one migration")

	if err := mg.migrate.Steps(-1); err != nil {
		if err == migrate.ErrNoChange {
			mg.log.Info("No migrations to roll back")
			return nil
		}
		return fmt.Errorf("rolling back migration: %w", err)
	}
	mg.logVersion("Migration rolled back")
	return nil
}

func (mg *Migrator) logVersion(msg string) {
	version, dirty, err := mg.migrate.Version()
	if err != nil {
		mg.log.WithError(err).Warn("Could not read migration version")
		return
	}
	mg.log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info(msg)
}

// Version reports the current migration version.
func (mg *Migrator) Version() (uint, bool, error) {
	return mg.migrate.Version()
}

// Close releases the migration source and database handles.
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("closing migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("closing migration database: %w", dbErr)
	}
	return nil
}
