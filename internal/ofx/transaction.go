package ofx

import (
	"log"
	"strings"

	"github.com/zackdotcomputer/capital-gains/internal/model"
)

// ParseTransaction normalizes one raw statement record of the given subtype.
// Returns nil when the record is dropped: unsupported subtype, malformed
// date, unusable transfer units or an uncomputable split ratio. Constant
// fields that deviate from their expected values produce a diagnostic only;
// the record is still emitted.
//
// The dispatch is a closed enumeration: adding a subtype means adding a case
// here, never registering a handler at run time.
func ParseTransaction(node any, typ model.TransactionType, reg *Registry) model.Transaction {
	switch typ {
	case model.TypeBankMovement:
		return parseBankMovement(node)
	case model.TypeIncome:
		return parseDividend(node, reg)
	case model.TypeBuyMutualFund, model.TypeBuyStock, model.TypeSellMutualFund, model.TypeSellStock:
		return parseBuySell(node, typ, reg)
	case model.TypeTransfer:
		return parseTransfer(node, reg)
	case model.TypeSplit:
		return parseSplit(node, reg)
	case model.TypeBuyDebt, model.TypeBuyOption, model.TypeBuyOther, model.TypeClosureOption,
		model.TypeInvExpense, model.TypeJournalFund, model.TypeJournalSec, model.TypeMarginInterest,
		model.TypeReinvest, model.TypeReturnOfCap, model.TypeSellDebt, model.TypeSellOption,
		model.TypeSellOther:
		log.Printf("unhandled transaction type %s, dropping record", typ)
		return nil
	default:
		log.Printf("unrecognized transaction type %q, dropping record", typ)
		return nil
	}
}

// expectConstant logs a diagnostic when a field expected to carry a fixed
// value deviates. The comparison is case-insensitive.
func expectConstant(node any, key, want, label string) {
	got := text(node, key)
	if !strings.EqualFold(got, want) {
		log.Printf("unexpected %s: %q", label, got)
	}
}

func parseBankMovement(node any) model.Transaction {
	expectConstant(node, "SUBACCTFUND", "cash", "sub-account fund")

	stmtTrn, _ := child(node, "STMTTRN")
	when, err := ParseStatementDate(text(stmtTrn, "DTPOSTED"))
	if err != nil {
		log.Printf("dropping bank movement: %v", err)
		return nil
	}

	return &model.BankMovement{
		TypeTag: model.TypeBankMovement,
		Instant: when,
		Amount:  numberOrZero(stmtTrn, "TRNAMT"),
	}
}

func parseDividend(node any, reg *Registry) model.Transaction {
	expectConstant(node, "SUBACCTFUND", "cash", "sub-account fund")
	expectConstant(node, "SUBACCTSEC", "cash", "sub-account security")
	expectConstant(node, "INCOMETYPE", "div", "income type")

	secID, _ := child(node, "SECID")
	security, known := reg.Resolve(secID)
	if !known {
		log.Printf("income transaction for unknown security %s", security.ID)
	}

	invTran, _ := child(node, "INVTRAN")
	when, err := ParseStatementDate(text(invTran, "DTTRADE"))
	if err != nil {
		log.Printf("dropping dividend for %s: %v", security.ID, err)
		return nil
	}

	return &model.Dividend{
		TypeTag:  model.TypeIncome,
		Instant:  when,
		Amount:   numberOrZero(node, "TOTAL"),
		Security: security,
	}
}

func parseBuySell(node any, typ model.TransactionType, reg *Registry) model.Transaction {
	isSell := typ.IsSell()

	if isSell {
		expectConstant(node, "SELLTYPE", "sell", "sell type")
	} else {
		expectConstant(node, "BUYTYPE", "buy", "buy type")
	}

	invKey := "INVBUY"
	if isSell {
		invKey = "INVSELL"
	}
	inv, _ := child(node, invKey)

	expectConstant(inv, "SUBACCTFUND", "cash", "sub-account fund")
	expectConstant(inv, "SUBACCTSEC", "cash", "sub-account security")

	secID, _ := child(inv, "SECID")
	security, known := reg.Resolve(secID)
	if !known {
		log.Printf("trade for unknown security %s", security.ID)
	}

	invTran, _ := child(inv, "INVTRAN")
	when, err := ParseStatementDate(text(invTran, "DTTRADE"))
	if err != nil {
		log.Printf("dropping trade of %s: %v", security.ID, err)
		return nil
	}

	units := numberOrZero(inv, "UNITS")

	// The source format sometimes disagrees with itself: the direction tag
	// says sell while the units are positive, or buy while they are negative.
	// The unit sign wins; the subtype is flipped to match before emitting.
	outputType := typ
	switch {
	case isSell && units > 0:
		log.Printf("flipping sell of %s at %d to a buy", security.ID, when.UnixMilli())
		if typ == model.TypeSellMutualFund {
			outputType = model.TypeBuyMutualFund
		} else {
			outputType = model.TypeBuyStock
		}
	case !isSell && units < 0:
		log.Printf("flipping buy of %s at %d to a sell", security.ID, when.UnixMilli())
		if typ == model.TypeBuyMutualFund {
			outputType = model.TypeSellMutualFund
		} else {
			outputType = model.TypeSellStock
		}
	}

	return &model.BuySell{
		TypeTag:   outputType,
		Instant:   when,
		Amount:    numberOrZero(inv, "TOTAL"),
		Security:  security,
		Units:     units,
		UnitPrice: numberOrZero(inv, "UNITPRICE"),
	}
}

func parseTransfer(node any, reg *Registry) model.Transaction {
	expectConstant(node, "POSTYPE", "long", "transfer position type")
	expectConstant(node, "SUBACCTSEC", "cash", "sub-account security")

	secID, _ := child(node, "SECID")
	security, known := reg.Resolve(secID)
	if !known {
		log.Printf("transfer for unknown security %s", security.ID)
	}

	units, ok := number(node, "UNITS")
	if !ok || units == 0 {
		// A zero-unit transfer carries no cost-basis information.
		return nil
	}

	invTran, _ := child(node, "INVTRAN")
	when, err := ParseStatementDate(text(invTran, "DTTRADE"))
	if err != nil {
		log.Printf("dropping transfer of %s: %v", security.ID, err)
		return nil
	}

	return &model.Transfer{
		TypeTag:   model.TypeTransfer,
		Instant:   when,
		Security:  security,
		Units:     units,
		UnitPrice: numberOrZero(node, "AVGCOSTBASIS") / units,
	}
}

func parseSplit(node any, reg *Registry) model.Transaction {
	expectConstant(node, "SUBACCTFUND", "cash", "sub-account fund")
	expectConstant(node, "SUBACCTSEC", "cash", "sub-account security")

	if text(node, "NUMERATOR") != "1" || text(node, "DENOMINATOR") != "1" {
		log.Printf("unexpected split ratio fields: %s / %s",
			text(node, "NUMERATOR"), text(node, "DENOMINATOR"))
	}

	secID, _ := child(node, "SECID")
	security, known := reg.Resolve(secID)
	if !known {
		log.Printf("split for unknown security %s", security.ID)
	}

	oldUnits, ok := number(node, "OLDUNITS")
	if !ok || oldUnits <= 0 {
		log.Printf("dropping split of %s: unusable old unit value %q", security.ID, text(node, "OLDUNITS"))
		return nil
	}
	newUnits, ok := number(node, "NEWUNITS")
	if !ok || newUnits <= 0 {
		log.Printf("dropping split of %s: unusable new unit value %q", security.ID, text(node, "NEWUNITS"))
		return nil
	}

	invTran, _ := child(node, "INVTRAN")
	when, err := ParseStatementDate(text(invTran, "DTTRADE"))
	if err != nil {
		log.Printf("dropping split of %s: %v", security.ID, err)
		return nil
	}

	return &model.Split{
		TypeTag:  model.TypeSplit,
		Instant:  when,
		Security: security,
		Ratio:    newUnits / oldUnits,
	}
}
