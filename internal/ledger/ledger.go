// Package ledger orders a normalized transaction sequence and applies
// retroactive split adjustments to it.
package ledger

import (
	"sort"

	"github.com/zackdotcomputer/capital-gains/internal/model"
)

// SortTransactions returns a copy of the sequence sorted ascending by time.
// The sort is stable: records sharing an instant keep their original order.
func SortTransactions(transactions []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(transactions))
	copy(out, transactions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time().Before(out[j].Time().Time)
	})
	return out
}

// ApplySplits rewrites pre-split acquisition records so that later splits are
// reflected in their unit counts and prices: for every split, each earlier
// buy/sell or transfer of the same security has its units multiplied by the
// split ratio and its unit price divided by it, preserving the position's
// notional value. Adjusted entries are fresh copies; the input sequence is
// not mutated.
//
// The input must already be sorted by time. Splits after a lot change only
// its magnitude, never its position in FIFO order.
func ApplySplits(sorted []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(sorted))
	copy(out, sorted)

	for i, tx := range out {
		split, ok := tx.(*model.Split)
		if !ok {
			continue
		}
		for j := 0; j < i; j++ {
			switch prior := out[j].(type) {
			case *model.BuySell:
				if prior.Security.ID != split.Security.ID {
					continue
				}
				adjusted := *prior
				adjusted.Units *= split.Ratio
				adjusted.UnitPrice /= split.Ratio
				out[j] = &adjusted
			case *model.Transfer:
				if prior.Security.ID != split.Security.ID {
					continue
				}
				adjusted := *prior
				adjusted.Units *= split.Ratio
				adjusted.UnitPrice /= split.Ratio
				out[j] = &adjusted
			}
		}
	}
	return out
}

// Normalize sorts the statement's transactions and applies split
// adjustments, returning a statement copy carrying the adjusted ledger.
func Normalize(account model.AccountStatement) model.AccountStatement {
	account.Transactions = ApplySplits(SortTransactions(account.Transactions))
	return account
}
