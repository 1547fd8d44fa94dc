package testutil

import (
	"database/sql"
	"testing"

	"github.com/fernet/fernet-go"
	"github.com/zackdotcomputer/capital-gains/internal/costbasis"
	"github.com/zackdotcomputer/capital-gains/internal/repository"
	"github.com/zackdotcomputer/capital-gains/internal/service"
)

// TestKey generates a fresh blob-encryption key for a test repository.
func TestKey(t *testing.T) *fernet.Key {
	t.Helper()

	key := &fernet.Key{}
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate test key: %v", err)
	}
	return key
}

// NewTestStatementRepository builds a statement repository over the test
// database with a fresh encryption key.
func NewTestStatementRepository(t *testing.T, db *sql.DB) *repository.StatementRepository {
	t.Helper()

	return repository.NewStatementRepository(db, TestKey(t))
}

// NewTestStatementService builds a statement service over the test database.
func NewTestStatementService(t *testing.T, db *sql.DB) *service.StatementService {
	t.Helper()

	return service.NewStatementService(NewTestStatementRepository(t, db))
}

// NewTestServices builds a statement service and a gains service sharing one
// repository, so statements digested through the former are visible to the
// latter.
func NewTestServices(t *testing.T, db *sql.DB) (*service.StatementService, *service.GainsService) {
	t.Helper()

	repo := NewTestStatementRepository(t, db)
	return service.NewStatementService(repo),
		service.NewGainsService(repo, costbasis.NewEngine([]string{"TIMXX"}))
}
