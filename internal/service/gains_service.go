package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zackdotcomputer/capital-gains/internal/costbasis"
	"github.com/zackdotcomputer/capital-gains/internal/model"
	"github.com/zackdotcomputer/capital-gains/internal/repository"
)

// GainsService computes realized capital gains over a date window for a
// cached statement.
type GainsService struct {
	statementRepo *repository.StatementRepository
	engine        *costbasis.Engine

	// Matching walks the full ledger on every call; identical concurrent
	// requests share one computation.
	group singleflight.Group
}

// NewGainsService creates a new GainsService with the provided repository and
// engine dependencies.
func NewGainsService(
	statementRepo *repository.StatementRepository,
	engine *costbasis.Engine,
) *GainsService {
	return &GainsService{
		statementRepo: statementRepo,
		engine:        engine,
	}
}

// Calculate loads the statement, FIFO-matches every sale in its ledger and
// aggregates those in the inclusive [from, to] window into short/long/total
// proceeds, costs and gains.
//
// The whole computation is atomic: on any error (unknown statement,
// insufficient purchase history) no partial result is returned.
func (s *GainsService) Calculate(ctx context.Context, statementID string, from, to time.Time) (*model.Calculations, error) {
	key := fmt.Sprintf("%s|%d|%d", statementID, from.UnixMilli(), to.UnixMilli())

	result, err, _ := s.group.Do(key, func() (any, error) {
		record, err := s.statementRepo.Get(ctx, statementID)
		if err != nil {
			return nil, err
		}

		sales, err := s.engine.Match(record.Statement.Account.Transactions)
		if err != nil {
			return nil, err
		}

		calc := costbasis.Aggregate(sales, from, to)
		return &calc, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*model.Calculations), nil
}
