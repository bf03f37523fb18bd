package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseDecimal converts locale-formatted numeric text into an exact decimal.
// Czech exports group digits with plain or non-breaking spaces and use a
// comma as the decimal separator. An empty cell means zero.
func parseDecimal(raw string) (decimal.Decimal, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decimal.Zero, nil
	}

	normalized := strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(text)
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}
	return value, nil
}
