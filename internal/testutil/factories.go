package testutil

import (
	"time"

	"github.com/zackdotcomputer/capital-gains/internal/model"
)

// Day returns an instant the given number of days after a fixed epoch.
// Ledger scenarios are easier to read as day offsets than as wall dates.
func Day(n int) model.Millis {
	base := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	return model.NewMillis(base.AddDate(0, 0, n))
}

// AaplSecurity returns a resolved test security.
func AaplSecurity() model.Security {
	return model.Security{
		ID:     "037833100",
		IDType: "CUSIP",
		Name:   "APPLE INC",
		Ticker: "AAPL",
	}
}

// VtiSecurity returns a second resolved test security.
func VtiSecurity() model.Security {
	return model.Security{
		ID:     "922908769",
		IDType: "CUSIP",
		Name:   "VANGUARD TOTAL STOCK MARKET ETF",
		Ticker: "VTI",
	}
}

// Buy builds a buy-stock transaction of units shares at unitPrice on day.
func Buy(sec model.Security, day int, units, unitPrice float64) *model.BuySell {
	return &model.BuySell{
		TypeTag:   model.TypeBuyStock,
		Instant:   Day(day),
		Amount:    -units * unitPrice,
		Security:  sec,
		Units:     units,
		UnitPrice: unitPrice,
	}
}

// Sell builds a sell-stock transaction of units shares at unitPrice on day.
// Units are stored negative per the ledger convention.
func Sell(sec model.Security, day int, units, unitPrice float64) *model.BuySell {
	return &model.BuySell{
		TypeTag:   model.TypeSellStock,
		Instant:   Day(day),
		Amount:    units * unitPrice,
		Security:  sec,
		Units:     -units,
		UnitPrice: unitPrice,
	}
}

// TransferIn builds an inbound transfer of units shares at unitPrice on day.
func TransferIn(sec model.Security, day int, units, unitPrice float64) *model.Transfer {
	return &model.Transfer{
		TypeTag:   model.TypeTransfer,
		Instant:   Day(day),
		Security:  sec,
		Units:     units,
		UnitPrice: unitPrice,
	}
}

// SplitTx builds a split transaction with the given newUnits/oldUnits ratio on day.
func SplitTx(sec model.Security, day int, ratio float64) *model.Split {
	return &model.Split{
		TypeTag:  model.TypeSplit,
		Instant:  Day(day),
		Security: sec,
		Ratio:    ratio,
	}
}

// Statement wraps transactions in an account statement with default balance
// and currency.
func Statement(transactions ...model.Transaction) model.AccountStatement {
	return model.AccountStatement{
		AsOf:         Day(1000),
		Currency:     "USD",
		Balance:      model.Balance{Cash: 1000},
		Transactions: transactions,
	}
}

// StatementRecord wraps an account statement in a full parsed-statement
// record ready for the repository.
func StatementRecord(id string, account model.AccountStatement) *model.StatementRecord {
	return &model.StatementRecord{
		ID:    id,
		Label: "test statement",
		Statement: model.ParsedStatement{
			Securities:          []model.Security{AaplSecurity(), VtiSecurity()},
			UntrackedSecurities: []model.Security{},
			Account:             account,
		},
		CreatedAt: time.Now().UTC(),
	}
}
