package ofx

import (
	"fmt"
	"log"

	"github.com/zackdotcomputer/capital-gains/internal/apperrors"
	"github.com/zackdotcomputer/capital-gains/internal/model"
)

// ParseDocument normalizes a full decoded statement document into the parsed
// statement record. The document root must carry an OFX envelope holding the
// security list and the investment statement subtrees.
//
// Fatal failures (unrecognizable document shape, unparseable statement as-of
// date) return an error; everything else degrades per record.
func ParseDocument(doc map[string]any) (*model.ParsedStatement, error) {
	root, ok := doc["OFX"]
	if !ok || root == nil {
		return nil, fmt.Errorf("%w: missing OFX envelope", apperrors.ErrInvalidDocument)
	}

	secList, _ := child(root, "SECLISTMSGSRSV1")
	securities := ParseSecurityList(secList)
	if securities == nil {
		securities = []model.Security{}
	}
	log.Printf("parsed %d securities", len(securities))

	reg := NewRegistry(securities)

	stmtRoot, ok := child(root, "INVSTMTMSGSRSV1")
	if !ok {
		stmtRoot = map[string]any{}
	}
	account, err := parseStatement(stmtRoot, reg)
	if err != nil {
		return nil, err
	}

	log.Printf("parsed account as of %s with cash balance %.2f and %d transactions",
		account.AsOf.Format("2006-01-02"), account.Balance.Cash, len(account.Transactions))

	untracked := reg.Untracked()
	if untracked == nil {
		untracked = []model.Security{}
	}

	return &model.ParsedStatement{
		Securities:          securities,
		UntrackedSecurities: untracked,
		Account:             *account,
	}, nil
}
