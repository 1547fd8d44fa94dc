package service

import (
	"database/sql"
	"strconv"

	"github.com/zackdotcomputer/capital-gains/internal/database"
	"github.com/zackdotcomputer/capital-gains/internal/model"
	"github.com/zackdotcomputer/capital-gains/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion returns the application version and the current database
// schema version.
func (s *SystemService) CheckVersion() (*model.VersionInfo, error) {
	dbVersion, err := database.Version(s.db)
	if err != nil {
		return nil, err
	}

	return &model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(dbVersion, 10),
	}, nil
}
