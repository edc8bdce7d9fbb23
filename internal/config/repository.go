package config

import (
	"fmt"
	"os"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

// CreateRepository opens the configured database, creating its directory first
func CreateRepository(config *Config) (sqlite.Repository, error) {
	dbPath := config.GetDatabasePath()
	if dbPath != ":memory:" {
		if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	repo, err := sqlite.NewWithOptions(dbPath, sqlite.Options{
		QueryTimeout: config.Database.QueryTimeout,
		WriteTimeout: config.Database.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
