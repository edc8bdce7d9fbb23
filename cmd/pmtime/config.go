package main

import (
	"os"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/cli"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/config"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/repository/sqlite"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// repositoryOpener picks how the database is opened for env. Testing uses a
// throwaway in-memory database; development keeps its file in the working
// directory unless configured otherwise.
func repositoryOpener(env Environment) cli.RepositoryOpener {
	switch env {
	case Testing:
		return func(*config.Config) (sqlite.Repository, error) {
			return config.CreateTestRepository()
		}
	case Development:
		return func(cfg *config.Config) (sqlite.Repository, error) {
			if os.Getenv("PMTIME_DB_DIR") == "" {
				cfg.Database.Dir = "."
			}
			return config.CreateRepository(cfg)
		}
	default:
		return config.CreateRepository
	}
}

// getEnvironment determines the current environment from PMTIME_ENV
func getEnvironment() Environment {
	switch Environment(os.Getenv("PMTIME_ENV")) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}
