package repository

import (
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL and returns a gorm handle.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate ensures the schema exists by running the SQL migrations under
// migrationsPath. It is idempotent: an up-to-date database is a no-op.
func Migrate(dsn, migrationsPath string, log zerolog.Logger) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize migration: %w", err)
	}
	defer m.Close()

	ver, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty migration state, manual intervention required")
	}
	log.Info().Uint("version", ver).Msg("Loaded migration version")

	err = m.Up()
	switch err {
	case nil, migrate.ErrNoChange, migrate.ErrNilVersion:
		log.Info().Bool("noChange", err == migrate.ErrNoChange).Msg("Schema migration complete")
		return nil
	default:
		// a database migrated by a newer build is allowed to keep running
		if strings.HasPrefix(err.Error(), "no migration found for version") {
			log.Warn().Err(err).Msg("Database is ahead of local migrations")
			return nil
		}
		return fmt.Errorf("failed to run migration: %w", err)
	}
}
