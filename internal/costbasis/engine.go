// Package costbasis matches sales against historical acquisition lots using
// first-in-first-out ordering and aggregates the realized gains.
package costbasis

import (
	"fmt"
	"log"

	"github.com/zackdotcomputer/capital-gains/internal/apperrors"
	"github.com/zackdotcomputer/capital-gains/internal/model"
)

// Engine performs FIFO cost-basis matching over a sorted, split-adjusted
// ledger. Lot queues live only for the duration of one Match call, so a
// single Engine may serve concurrent computations.
type Engine struct {
	ignoreTickers map[string]struct{}
}

// NewEngine creates an engine. Sales of securities whose ticker appears in
// ignoreTickers are skipped entirely: no lots are consumed and no match is
// emitted. This excludes known non-economic pseudo-securities such as money
// market sweep funds.
func NewEngine(ignoreTickers []string) *Engine {
	ignored := make(map[string]struct{}, len(ignoreTickers))
	for _, t := range ignoreTickers {
		ignored[t] = struct{}{}
	}
	return &Engine{ignoreTickers: ignored}
}

// lot is one not-yet-fully-consumed acquisition in a security's queue.
type lot struct {
	instant   model.Millis
	security  model.Security
	units     float64
	unitPrice float64
}

// Match scans the ledger once in order. Buys and transfers-in append to their
// security's lot queue; each sale consumes lots from the front of its queue
// and is emitted with its aggregate cost basis and the consumed lots.
//
// Running out of lots before a sale is covered returns
// apperrors.ErrInsufficientHistory: the statement does not cover the account's
// full history and no partial result is meaningful.
func (e *Engine) Match(transactions []model.Transaction) ([]model.MatchedSale, error) {
	queues := make(map[string][]lot)
	sales := []model.MatchedSale{}

	for _, tx := range transactions {
		switch t := tx.(type) {
		case *model.BuySell:
			if t.TypeTag.IsBuy() {
				queues[t.Security.ID] = append(queues[t.Security.ID], lot{
					instant:   t.Instant,
					security:  t.Security,
					units:     t.Units,
					unitPrice: t.UnitPrice,
				})
				continue
			}

			if _, skip := e.ignoreTickers[t.Security.Ticker]; skip {
				continue
			}

			matched, remaining, err := consume(t, queues[t.Security.ID])
			if err != nil {
				return nil, err
			}
			queues[t.Security.ID] = remaining
			sales = append(sales, matched)

		case *model.Transfer:
			if t.Units > 0 {
				queues[t.Security.ID] = append(queues[t.Security.ID], lot{
					instant:   t.Instant,
					security:  t.Security,
					units:     t.Units,
					unitPrice: t.UnitPrice,
				})
			}
		}
	}

	return sales, nil
}

// consume walks the front of the queue until the sale's units are covered,
// splitting the final lot when it overshoots. The split lot is accounted
// exactly once: the consumed fraction joins the sale's relevant buys and the
// remainder re-enters the front of the queue at its original price and
// acquisition time.
func consume(sale *model.BuySell, queue []lot) (model.MatchedSale, []lot, error) {
	target := -sale.Units

	if target <= 0 {
		log.Printf("sale of %s at %d has non-negative units %f, emitting empty match",
			sale.Security.ID, sale.Instant.UnixMilli(), sale.Units)
		return model.MatchedSale{
			BuySell:      *sale,
			CostBasis:    0,
			RelevantBuys: []model.Lot{},
		}, queue, nil
	}

	var sharesFound, aggregateSpend float64
	relevantBuys := []model.Lot{}

	for len(queue) > 0 && sharesFound < target {
		next := queue[0]

		if sharesFound+next.units <= target {
			// Whole lot consumed.
			sharesFound += next.units
			aggregateSpend += next.units * next.unitPrice
			relevantBuys = append(relevantBuys, model.Lot{
				Instant:   next.instant,
				Security:  next.security,
				Units:     next.units,
				UnitPrice: next.unitPrice,
			})
			queue = queue[1:]
			continue
		}

		// Overshoot: take only the missing fraction, leave the rest queued.
		underflow := target - sharesFound
		sharesFound = target
		aggregateSpend += underflow * next.unitPrice
		relevantBuys = append(relevantBuys, model.Lot{
			Instant:   next.instant,
			Security:  next.security,
			Units:     underflow,
			UnitPrice: next.unitPrice,
		})
		queue[0].units = next.units - underflow
	}

	if sharesFound < target {
		return model.MatchedSale{}, nil, fmt.Errorf(
			"%w: sale of %f units of %s at %d exceeds prior acquisitions by %f units",
			apperrors.ErrInsufficientHistory, target, sale.Security.ID,
			sale.Instant.UnixMilli(), target-sharesFound)
	}

	return model.MatchedSale{
		BuySell:      *sale,
		CostBasis:    aggregateSpend,
		RelevantBuys: relevantBuys,
	}, queue, nil
}
