package validation

import (
	"strings"
	"time"

	"github.com/zackdotcomputer/capital-gains/internal/api/request"
)

// ValidateDigestStatement validates a statement digest request.
//
// Required fields:
//   - document: the decoded statement tree, must be a non-empty object
//
// The label is optional but capped at 200 characters to fit the cache column.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateDigestStatement(req request.DigestStatementRequest) error {
	errors := make(map[string]string)

	if len(req.Document) == 0 {
		errors["document"] = "document is required"
	}

	if len(req.Label) > 200 {
		errors["label"] = "label must be 200 characters or fewer"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateGainsWindow validates and parses the from/to query parameters of a
// gains request. Both are required, must be YYYY-MM-DD, and from must not be
// after to. The returned window is inclusive: to is extended to the last
// instant of its day.
func ValidateGainsWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	errors := make(map[string]string)

	var from, to time.Time
	var err error

	if strings.TrimSpace(fromStr) == "" {
		errors["from"] = "from date is required"
	} else if from, err = time.Parse("2006-01-02", fromStr); err != nil {
		errors["from"] = err.Error()
	}

	if strings.TrimSpace(toStr) == "" {
		errors["to"] = "to date is required"
	} else if to, err = time.Parse("2006-01-02", toStr); err != nil {
		errors["to"] = err.Error()
	}

	if len(errors) == 0 && from.After(to) {
		errors["from"] = "from date must not be after to date"
	}

	if len(errors) > 0 {
		return time.Time{}, time.Time{}, &Error{Fields: errors}
	}

	to = to.Add(24*time.Hour - time.Millisecond)
	return from.UTC(), to.UTC(), nil
}
