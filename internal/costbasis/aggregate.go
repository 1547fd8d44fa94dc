package costbasis

import (
	"log"
	"math"
	"time"

	"github.com/zackdotcomputer/capital-gains/internal/model"
)

// shortTermWindow is the holding-duration threshold separating short- and
// long-term gains. A fixed 365 days, not a calendar-aware tax rule.
const shortTermWindow = 365 * 24 * time.Hour

// Aggregate filters matched sales to the inclusive [from, to] window and sums
// proceeds, costs and gains into short-term, long-term and total buckets.
//
// Amounts are rounded to cents per sale before summation, half away from
// zero. A sale is short-term when the most recently acquired of its relevant
// buys was held under 365 days; a sale with no relevant buys defaults to
// short-term.
func Aggregate(sales []model.MatchedSale, from, to time.Time) model.Calculations {
	inWindow := []model.MatchedSale{}
	for _, s := range sales {
		t := s.Instant.Time
		if !t.Before(from) && !t.After(to) {
			inWindow = append(inWindow, s)
		}
	}

	calc := model.Calculations{RichSalesInWindow: inWindow}

	for _, s := range inWindow {
		if s.Units > 0 {
			log.Printf("sale of %s at %d had positive units", s.Security.ID, s.Instant.UnixMilli())
		}
		if s.CostBasis < 0 {
			log.Printf("sale of %s at %d had negative cost basis", s.Security.ID, s.Instant.UnixMilli())
		}
		if s.Amount < 0 {
			log.Printf("sale of %s at %d generated negative revenue", s.Security.ID, s.Instant.UnixMilli())
		}

		revenue := centRound(s.Amount)
		cost := centRound(s.CostBasis)
		profit := centRound(revenue - cost)

		calc.Proceeds.Total += revenue
		calc.Costs.Total += cost
		calc.Gains.Total += profit

		if isShortTerm(s) {
			calc.Proceeds.Short += revenue
			calc.Costs.Short += cost
			calc.Gains.Short += profit
		} else {
			calc.Proceeds.Long += revenue
			calc.Costs.Long += cost
			calc.Gains.Long += profit
		}
	}

	return calc
}

// isShortTerm classifies by the acquisition time of the most recently
// acquired relevant buy. A single young lot therefore classifies the whole
// sale short-term even when the bulk of the shares are older.
func isShortTerm(s model.MatchedSale) bool {
	if len(s.RelevantBuys) == 0 {
		return true
	}

	latest := s.RelevantBuys[0].Instant.Time
	for _, b := range s.RelevantBuys[1:] {
		if b.Instant.After(latest) {
			latest = b.Instant.Time
		}
	}

	held := s.Instant.Sub(latest)
	if held < 0 {
		held = -held
	}
	return held < shortTermWindow
}

// centRound rounds to two decimal places, half away from zero.
func centRound(n float64) float64 {
	return math.Round(n*100) / 100
}
