// Package database opens the MySQL connection pool and applies schema migrations.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationsTable is the table golang-migrate records applied versions in
const MigrationsTable = "schema_migrations"

// Connect connects to the database
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// MigrationPath returns the migrations source URL, looking in the working
// directory first and then one and two levels up for binaries run from cmd/.
func MigrationPath() string {
	for _, dir := range []string{"migrations", "../migrations", "../../migrations"} {
		if _, err := os.Stat(dir); err == nil {
			return "file://" + dir
		}
	}
	return "file://migrations"
}

// Migrate runs database migrations from migrationPath up to the latest version
func Migrate(db *sql.DB, migrationPath string) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: MigrationsTable,
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
