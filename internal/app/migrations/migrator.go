package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/logger"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema migrations in version order.
type Migrator struct {
	provider *db.Provider
	files    fs.FS
	logger   zerolog.Logger
}

// NewMigrator creates a new migrator over the embedded SQL files
func NewMigrator(provider *db.Provider) *Migrator {
	sub, _ := fs.Sub(migrationFiles, "sql")
	return &Migrator{
		provider: provider,
		files:    sub,
		logger:   logger.Component("migrations"),
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := m.provider.DB.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	exists, err := m.provider.Exists(ctx, m.provider.Builder().
		Select("1").
		From("schema_migrations").
		Where(squirrel.Eq{"version": version}))
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// Files returns the migration file names for the provider dialect, in order.
// Plain files apply to every dialect; files named "<version>_<name>.<dialect>.sql"
// only apply to that dialect.
func (m *Migrator) Files() ([]string, error) {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	dialectSuffix := "." + string(m.provider.Dialect()) + ".sql"
	var selected []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if isDialectSpecific(name) && !strings.HasSuffix(name, dialectSuffix) {
			continue
		}
		selected = append(selected, name)
	}
	sort.Strings(selected)
	return selected, nil
}

func isDialectSpecific(name string) bool {
	return strings.HasSuffix(name, ".mysql.sql") || strings.HasSuffix(name, ".postgres.sql")
}

// versionOf extracts the version from a file name ("001_init.sql" => "001").
func versionOf(name string) string {
	return strings.SplitN(name, "_", 2)[0]
}

// Migrate applies every pending migration.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	files, err := m.Files()
	if err != nil {
		return err
	}

	for _, name := range files {
		if err := m.apply(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, name string) error {
	version := versionOf(name)

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("file", name).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(m.files, name)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	// MySQL commits DDL implicitly, so statements run outside a transaction.
	if _, err := m.provider.DB.ExecContext(ctx, string(content)); err != nil {
		m.logger.Error().Err(err).Str("file", name).Msg("Migration failed")
		return fmt.Errorf("error occurred during SQL migration %s: %w", name, err)
	}

	if _, err := m.provider.Exec(ctx, m.provider.Builder().
		Insert("schema_migrations").
		Columns("version", "applied_at").
		Values(version, time.Now())); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	m.logger.Info().Str("file", name).Msg("Migration applied")
	return nil
}
