package ofx

import (
	"fmt"
	"time"

	"github.com/zackdotcomputer/capital-gains/internal/apperrors"
	"github.com/zackdotcomputer/capital-gains/internal/model"
)

// parseStatement extracts the account statement from the investment-statement
// subtree, unwrapping up to two response-envelope levels (INVSTMTTRNRS,
// INVSTMTRS) to reach the body. A malformed as-of date is fatal for the whole
// statement; per-record failures only drop the record.
func parseStatement(node any, reg *Registry) (*model.AccountStatement, error) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: statement body is not an object", apperrors.ErrInvalidDocument)
	}

	if inner, ok := m["INVSTMTTRNRS"]; ok {
		return parseStatement(inner, reg)
	}
	if inner, ok := m["INVSTMTRS"]; ok {
		return parseStatement(inner, reg)
	}

	currency := "USD"
	if c := text(m, "CURDEF"); c != "" {
		currency = c
	}

	asOf := model.NewMillis(time.Now())
	if raw, ok := m["DTASOF"]; ok {
		parsed, err := ParseStatementDate(scalarString(raw))
		if err != nil {
			return nil, fmt.Errorf("statement as-of date: %w", err)
		}
		asOf = parsed
	}

	invBal, _ := child(m, "INVBAL")
	balance := parseBalance(invBal)

	tranList, _ := child(m, "INVTRANLIST")
	transactions := parseTransactionList(tranList, reg)

	return &model.AccountStatement{
		AsOf:         asOf,
		Currency:     currency,
		Balance:      balance,
		Transactions: transactions,
	}, nil
}

// parseBalance maps the INVBAL sub-object onto the balance record. Absent or
// unparseable fields default to zero.
func parseBalance(node any) model.Balance {
	return model.Balance{
		Cash:   numberOrZero(node, "AVAILCASH"),
		Margin: numberOrZero(node, "MARGINBALANCE"),
		Short:  numberOrZero(node, "SHORTBALANCE"),
	}
}

// parseTransactionList iterates every recognized transaction-group tag,
// accepting a single record or a sequence per tag, and flattens the results.
// Records the normalizer rejects are discarded.
func parseTransactionList(node any, reg *Registry) []model.Transaction {
	m, ok := node.(map[string]any)
	if !ok {
		return []model.Transaction{}
	}

	var out []model.Transaction
	for _, typ := range model.AllTransactionTypes {
		group, ok := m[string(typ)]
		if !ok {
			continue
		}
		for _, record := range asList(group) {
			if tx := ParseTransaction(record, typ, reg); tx != nil {
				out = append(out, tx)
			}
		}
	}
	if out == nil {
		out = []model.Transaction{}
	}
	return out
}
