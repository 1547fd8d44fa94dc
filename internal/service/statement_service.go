package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/zackdotcomputer/capital-gains/internal/ledger"
	"github.com/zackdotcomputer/capital-gains/internal/model"
	"github.com/zackdotcomputer/capital-gains/internal/ofx"
	"github.com/zackdotcomputer/capital-gains/internal/repository"
)

// StatementService handles statement digest and cache business logic.
type StatementService struct {
	statementRepo *repository.StatementRepository
}

// NewStatementService creates a new StatementService with the provided repository dependencies.
func NewStatementService(
	statementRepo *repository.StatementRepository,
) *StatementService {
	return &StatementService{
		statementRepo: statementRepo,
	}
}

// Digest normalizes a decoded statement document into a ledger, sorts it,
// applies split adjustments and caches the result under a fresh ID.
//
// Fatal parse errors (unrecognizable document, malformed as-of date) are
// returned to the caller; per-record problems are logged by the normalizer
// and the offending records dropped.
func (s *StatementService) Digest(ctx context.Context, document map[string]any, label string) (*model.StatementRecord, error) {
	parsed, err := ofx.ParseDocument(document)
	if err != nil {
		return nil, err
	}

	parsed.Account = ledger.Normalize(parsed.Account)

	record := &model.StatementRecord{
		ID:        uuid.New().String(),
		Label:     label,
		Statement: *parsed,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.statementRepo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to cache statement: %w", err)
	}

	return record, nil
}

// ListStatements retrieves summaries of all cached statements, newest first.
func (s *StatementService) ListStatements(ctx context.Context) ([]model.StatementSummary, error) {
	return s.statementRepo.List(ctx)
}

// GetStatement retrieves one cached statement with its full parsed payload.
func (s *StatementService) GetStatement(ctx context.Context, id string) (*model.StatementRecord, error) {
	return s.statementRepo.Get(ctx, id)
}

// DeleteStatement removes one cached statement.
func (s *StatementService) DeleteStatement(ctx context.Context, id string) error {
	return s.statementRepo.Delete(ctx, id)
}

// PurgeExpired removes statements cached longer ago than the retention
// period. Called by the scheduled retention job.
func (s *StatementService) PurgeExpired(ctx context.Context, retention time.Duration) error {
	cutoff := time.Now().UTC().Add(-retention)

	purged, err := s.statementRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if purged > 0 {
		log.Printf("purged %d cached statements older than %s", purged, cutoff.Format("2006-01-02"))
	}
	return nil
}
