package ofx

import (
	"log"

	"github.com/zackdotcomputer/capital-gains/internal/model"
)

// secListBuckets are the five parallel type-specific security buckets a
// security list may present instead of a flat sequence.
var secListBuckets = []string{"MFINFO", "STOCKINFO", "OPTINFO", "DEBTINFO", "OTHERINFO"}

// ParseSecurityList walks the SECLISTMSGSRSV1 subtree and extracts every
// recognizable security record. The list may be wrapped in up to two
// container levels (SECLIST, SECINFO) or spread across the five type-specific
// buckets. Best effort: unrecognized shapes yield an empty list, never an
// error.
func ParseSecurityList(node any) []model.Security {
	switch v := node.(type) {
	case []any:
		out := make([]model.Security, 0, len(v))
		for _, item := range v {
			if sec, ok := parseSecurity(item); ok {
				out = append(out, sec)
			}
		}
		return out
	case map[string]any:
		if inner, ok := v["SECLIST"]; ok {
			return ParseSecurityList(inner)
		}
		if inner, ok := v["SECINFO"]; ok {
			return ParseSecurityList(asList(inner))
		}
		var out []model.Security
		for _, bucket := range secListBuckets {
			if inner, ok := v[bucket]; ok {
				out = append(out, ParseSecurityList(asList(inner))...)
			}
		}
		return out
	default:
		return nil
	}
}

// parseSecurity extracts a single security record, unwrapping a SECINFO
// container level if present.
func parseSecurity(node any) (model.Security, bool) {
	m, ok := node.(map[string]any)
	if !ok {
		return model.Security{}, false
	}

	if inner, ok := m["SECINFO"]; ok {
		return parseSecurity(inner)
	}

	if _, hasName := m["SECNAME"]; !hasName {
		return model.Security{}, false
	}
	secID, hasID := m["SECID"]
	if !hasID {
		return model.Security{}, false
	}

	idType := text(secID, "UNIQUEIDTYPE")
	if idType != "CUSIP" {
		log.Printf("unexpected security id type: %q", idType)
	}

	return model.Security{
		ID:     text(secID, "UNIQUEID"),
		IDType: idType,
		Name:   text(m, "SECNAME"),
		Ticker: text(m, "TICKER"),
	}, true
}

// Registry resolves security identifiers against the statement's security
// list. IDs missing from the list resolve to stub securities, which the
// registry records once each for downstream reporting.
type Registry struct {
	byID      map[string]model.Security
	untracked []model.Security
	seenStub  map[string]bool
}

// NewRegistry builds a registry over the given security list.
func NewRegistry(securities []model.Security) *Registry {
	byID := make(map[string]model.Security, len(securities))
	for _, s := range securities {
		byID[s.ID] = s
	}
	return &Registry{
		byID:     byID,
		seenStub: make(map[string]bool),
	}
}

// Resolve returns the security for a SECID node. When the identifier is
// unknown it synthesizes a stub carrying only the ID and ID type, records it
// as untracked, and returns known=false.
func (r *Registry) Resolve(secID any) (security model.Security, known bool) {
	id := text(secID, "UNIQUEID")
	if sec, ok := r.byID[id]; ok {
		return sec, true
	}

	stub := model.Security{
		ID:     id,
		IDType: text(secID, "UNIQUEIDTYPE"),
	}
	if !r.seenStub[id] {
		r.seenStub[id] = true
		r.untracked = append(r.untracked, stub)
	}
	return stub, false
}

// Untracked returns the stub securities resolved so far, in first-reference
// order.
func (r *Registry) Untracked() []model.Security {
	return r.untracked
}
