package ofx

import (
	"fmt"
	"strings"
	"time"

	"github.com/zackdotcomputer/capital-gains/internal/apperrors"
	"github.com/zackdotcomputer/capital-gains/internal/model"
)

// statementDateLayout matches the fixed-width OFX timestamp encoding,
// e.g. "20210429000000.000". The fractional-second group varies in width.
const statementDateLayout = "20060102150405"

// ParseStatementDate parses the statement date encoding into an instant.
// Returns apperrors.ErrMalformedDate when the input is empty, not of the
// expected shape, or an impossible calendar date.
func ParseStatementDate(raw string) (model.Millis, error) {
	if raw == "" {
		return model.Millis{}, fmt.Errorf("%w: empty date string", apperrors.ErrMalformedDate)
	}

	base := raw
	frac := ""
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		base = raw[:i]
		frac = raw[i+1:]
	}

	t, err := time.Parse(statementDateLayout, base)
	if err != nil {
		return model.Millis{}, fmt.Errorf("%w: %q: %v", apperrors.ErrMalformedDate, raw, err)
	}

	if frac != "" {
		d, err := time.ParseDuration("0." + frac + "s")
		if err != nil {
			return model.Millis{}, fmt.Errorf("%w: %q: bad fractional seconds", apperrors.ErrMalformedDate, raw)
		}
		t = t.Add(d)
	}

	return model.NewMillis(t.UTC()), nil
}
