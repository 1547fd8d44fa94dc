package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TransactionType identifies the OFX transaction subtype a record was parsed from.
type TransactionType string

// All transaction subtype tags that can appear in a statement's transaction list.
const (
	TypeBuyDebt        TransactionType = "BUYDEBT"
	TypeBuyMutualFund  TransactionType = "BUYMF"
	TypeBuyOption      TransactionType = "BUYOPT"
	TypeBuyOther       TransactionType = "BUYOTHER"
	TypeBuyStock       TransactionType = "BUYSTOCK"
	TypeClosureOption  TransactionType = "CLOSUREOPT"
	TypeIncome         TransactionType = "INCOME"
	TypeInvExpense     TransactionType = "INVEXPENSE"
	TypeJournalFund    TransactionType = "JRNLFUND"
	TypeJournalSec     TransactionType = "JRNLSEC"
	TypeMarginInterest TransactionType = "MARGININTEREST"
	TypeReinvest       TransactionType = "REINVEST"
	TypeReturnOfCap    TransactionType = "RETOFCAP"
	TypeSellDebt       TransactionType = "SELLDEBT"
	TypeSellMutualFund TransactionType = "SELLMF"
	TypeSellOption     TransactionType = "SELLOPT"
	TypeSellOther      TransactionType = "SELLOTHER"
	TypeSellStock      TransactionType = "SELLSTOCK"
	TypeSplit          TransactionType = "SPLIT"
	TypeTransfer       TransactionType = "TRANSFER"
	TypeBankMovement   TransactionType = "INVBANKTRAN"
)

// AllTransactionTypes lists every subtype tag in the order the statement
// assembler scans transaction groups.
var AllTransactionTypes = []TransactionType{
	TypeBuyDebt,
	TypeBuyMutualFund,
	TypeBuyOption,
	TypeBuyOther,
	TypeBuyStock,
	TypeClosureOption,
	TypeIncome,
	TypeInvExpense,
	TypeJournalFund,
	TypeJournalSec,
	TypeMarginInterest,
	TypeReinvest,
	TypeReturnOfCap,
	TypeSellDebt,
	TypeSellMutualFund,
	TypeSellOption,
	TypeSellOther,
	TypeSellStock,
	TypeSplit,
	TypeTransfer,
	TypeBankMovement,
}

// IsSell reports whether the type is a sale of stock or mutual fund shares.
func (t TransactionType) IsSell() bool {
	return t == TypeSellMutualFund || t == TypeSellStock
}

// IsBuy reports whether the type is a purchase of stock or mutual fund shares.
func (t TransactionType) IsBuy() bool {
	return t == TypeBuyMutualFund || t == TypeBuyStock
}

// Millis is an instant serialized as a string of milliseconds since the Unix
// epoch. The string form survives JSON round-trips without precision loss.
type Millis struct {
	time.Time
}

// NewMillis wraps a time.Time, truncating to millisecond precision.
func NewMillis(t time.Time) Millis {
	return Millis{time.UnixMilli(t.UnixMilli()).UTC()}
}

// MarshalJSON encodes the instant as a decimal string of epoch milliseconds.
func (m Millis) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(m.UnixMilli(), 10))
}

// UnmarshalJSON decodes a decimal string of epoch milliseconds.
func (m *Millis) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid millisecond timestamp %q: %w", s, err)
	}
	m.Time = time.UnixMilli(ms).UTC()
	return nil
}

// Transaction is one normalized ledger entry. It is a closed tagged union:
// the concrete type is one of BankMovement, Dividend, BuySell, Transfer or
// Split, discriminated by Type().
type Transaction interface {
	// Type returns the subtype tag the record was normalized to.
	Type() TransactionType
	// Time returns the trade (or posting) instant of the record.
	Time() Millis
}

// BankMovement is a cash movement into or out of the account.
type BankMovement struct {
	TypeTag TransactionType `json:"type"`
	Instant Millis          `json:"time"`
	Amount  float64         `json:"amount"`
}

func (t *BankMovement) Type() TransactionType { return t.TypeTag }
func (t *BankMovement) Time() Millis          { return t.Instant }

// Dividend is an income payment attributed to a security.
type Dividend struct {
	TypeTag  TransactionType `json:"type"`
	Instant  Millis          `json:"time"`
	Amount   float64         `json:"amount"`
	Security Security        `json:"security"`
}

func (t *Dividend) Type() TransactionType { return t.TypeTag }
func (t *Dividend) Time() Millis          { return t.Instant }

// BuySell is a trade of stock or mutual fund shares. Units are positive for
// buys and negative for sells; UnitPrice is always positive. Amount is the
// cash delta as reported by the broker; it is expected, but never enforced,
// to equal -units * unitPrice.
type BuySell struct {
	TypeTag   TransactionType `json:"type"`
	Instant   Millis          `json:"time"`
	Amount    float64         `json:"amount"`
	Security  Security        `json:"security"`
	Units     float64         `json:"units"`
	UnitPrice float64         `json:"unitPrice"`
}

func (t *BuySell) Type() TransactionType { return t.TypeTag }
func (t *BuySell) Time() Millis          { return t.Instant }

// Transfer is a position moved into (positive units) or out of (negative
// units) the account. UnitPrice is derived from the reported aggregate cost
// basis and is always positive.
type Transfer struct {
	TypeTag   TransactionType `json:"type"`
	Instant   Millis          `json:"time"`
	Security  Security        `json:"security"`
	Units     float64         `json:"units"`
	UnitPrice float64         `json:"unitPrice"`
}

func (t *Transfer) Type() TransactionType { return t.TypeTag }
func (t *Transfer) Time() Millis          { return t.Instant }

// Split is a corporate action changing the share count of a position.
// Ratio is newUnits/oldUnits and is always positive.
type Split struct {
	TypeTag  TransactionType `json:"type"`
	Instant  Millis          `json:"time"`
	Security Security        `json:"security"`
	Ratio    float64         `json:"ratio"`
}

func (t *Split) Type() TransactionType { return t.TypeTag }
func (t *Split) Time() Millis          { return t.Instant }

// UnmarshalTransaction decodes one serialized transaction, dispatching on its
// "type" discriminator to the matching concrete variant.
func UnmarshalTransaction(data []byte) (Transaction, error) {
	var probe struct {
		Type TransactionType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to read transaction type: %w", err)
	}

	var tx Transaction
	switch probe.Type {
	case TypeBankMovement:
		tx = &BankMovement{}
	case TypeIncome:
		tx = &Dividend{}
	case TypeBuyMutualFund, TypeBuyStock, TypeSellMutualFund, TypeSellStock:
		tx = &BuySell{}
	case TypeTransfer:
		tx = &Transfer{}
	case TypeSplit:
		tx = &Split{}
	default:
		return nil, fmt.Errorf("unknown transaction type %q", probe.Type)
	}

	if err := json.Unmarshal(data, tx); err != nil {
		return nil, fmt.Errorf("failed to decode %s transaction: %w", probe.Type, err)
	}
	return tx, nil
}
