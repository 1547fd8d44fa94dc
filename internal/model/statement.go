package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Balance holds the statement's closing cash, margin and short balances.
// Absent or unparseable values default to zero.
type Balance struct {
	Cash   float64 `json:"cash"`
	Margin float64 `json:"margin"`
	Short  float64 `json:"short"`
}

// AccountStatement is the normalized ledger extracted from one brokerage
// statement document.
type AccountStatement struct {
	AsOf         Millis        `json:"asOf"`
	Currency     string        `json:"currency"`
	Balance      Balance       `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

// accountStatementJSON mirrors AccountStatement with raw transaction payloads
// so the tagged union can be decoded per element.
type accountStatementJSON struct {
	AsOf         Millis            `json:"asOf"`
	Currency     string            `json:"currency"`
	Balance      Balance           `json:"balance"`
	Transactions []json.RawMessage `json:"transactions"`
}

// UnmarshalJSON decodes the statement, dispatching each transaction to its
// concrete variant.
func (a *AccountStatement) UnmarshalJSON(data []byte) error {
	var raw accountStatementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	transactions := make([]Transaction, 0, len(raw.Transactions))
	for i, payload := range raw.Transactions {
		tx, err := UnmarshalTransaction(payload)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		transactions = append(transactions, tx)
	}

	a.AsOf = raw.AsOf
	a.Currency = raw.Currency
	a.Balance = raw.Balance
	a.Transactions = transactions
	return nil
}

// ParsedStatement is the primary output of a statement digest: the resolved
// security list, the stub securities referenced by transactions but missing
// from that list, and the normalized account ledger.
type ParsedStatement struct {
	Securities          []Security       `json:"securities"`
	UntrackedSecurities []Security       `json:"untrackedSecurities"`
	Account             AccountStatement `json:"account"`
}

// StatementRecord is a stored statement: the parsed payload plus cache
// metadata assigned at digest time.
type StatementRecord struct {
	ID        string          `json:"id"`
	Label     string          `json:"label,omitempty"`
	Statement ParsedStatement `json:"statement"`
	CreatedAt time.Time       `json:"createdAt"`
}

// StatementSummary describes one cached statement without its payload.
// Used for list endpoints.
type StatementSummary struct {
	ID               string    `json:"id"`
	Label            string    `json:"label,omitempty"`
	Currency         string    `json:"currency"`
	AsOf             Millis    `json:"asOf"`
	TransactionCount int       `json:"transactionCount"`
	CreatedAt        time.Time `json:"createdAt"`
}
