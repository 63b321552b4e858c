// Package store database for slider settings
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db}

	if err := database.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return database, nil
}

func (d *Database) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS app_settings (
		singleton INTEGER NOT NULL DEFAULT 1 CHECK (singleton = 1),
		slideshow_interval_seconds INTEGER NOT NULL,
		per_page                   INTEGER NOT NULL,
		PRIMARY KEY (singleton)
	);
	`
	_, err := d.db.Exec(query)
	return err
}

// GetAppSettings returns the stored settings, writing the defaults on first use.
func (d *Database) GetAppSettings() (*AppSettings, error) {
	const query = `
		SELECT slideshow_interval_seconds,
		       per_page
		FROM app_settings
		WHERE singleton = 1
	`

	var settings AppSettings
	err := d.db.QueryRow(query).Scan(&settings.SlideshowIntervalSeconds, &settings.PerPage)
	if errors.Is(err, sql.ErrNoRows) {
		// Bootstrap defaults if no settings row exists yet
		defaults := &AppSettings{
			SlideshowIntervalSeconds: DefaultSlideshowIntervalSeconds,
			PerPage:                  DefaultPerPage,
		}
		if err := d.UpsertAppSettings(defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get app settings: %w", err)
	}

	return &settings, nil
}

func (d *Database) UpsertAppSettings(s *AppSettings) error {
	const stmt = `
		INSERT INTO app_settings (
			singleton,
			slideshow_interval_seconds,
			per_page
		) VALUES (1, ?, ?)
		ON CONFLICT(singleton) DO UPDATE SET
			slideshow_interval_seconds = excluded.slideshow_interval_seconds,
			per_page                   = excluded.per_page
	`

	_, err := d.db.Exec(stmt, s.SlideshowIntervalSeconds, s.PerPage)
	if err != nil {
		return fmt.Errorf("upsert app settings: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
