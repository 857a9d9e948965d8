package config

import (
	"fmt"

	"discipline-dashboard/internal/repository"
	"discipline-dashboard/internal/repository/file"
	"discipline-dashboard/internal/repository/sqlite"
)

// Stores bundles the persistence backends selected by the configuration
type Stores struct {
	Tasks repository.TaskStore
	Log   repository.SessionLog
}

// Close releases the session log
func (s *Stores) Close() error {
	if s.Log == nil {
		return nil
	}
	return s.Log.Close()
}

// CreateStores creates the task file and the configured session log backend
func CreateStores(config *Config) (*Stores, error) {
	tasks := file.NewTaskFile(config.TaskFilePath(), config.DirMode())

	switch config.Storage.LogBackend {
	case LogBackendSQLite:
		log, err := sqlite.New(config.DatabasePath(),
			sqlite.WithWriteTimeout(config.GetWriteTimeout()),
			sqlite.WithDirPermissions(config.DirMode()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return &Stores{Tasks: tasks, Log: log}, nil
	case LogBackendCSV, "":
		return &Stores{Tasks: tasks, Log: file.NewCSVLog(config.LogFilePath(), config.DirMode())}, nil
	default:
		return nil, &ConfigError{Field: "storage.log_backend", Message: fmt.Sprintf("unknown log backend %q", config.Storage.LogBackend)}
	}
}
