// Package lot implements the identity rule that decides whether two
// inventory entries are the same lot: item name plus batch, compared after
// trimming and uppercasing.
package lot

import (
	"strings"

	"github.com/shopspring/decimal"

	"medibill/backend/internal/domain"
)

// Normalize trims surrounding whitespace and uppercases. It is the only
// canonicalization applied before identity comparison.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Key builds the merge key for a (name, batch) pair. Either part being
// empty after normalization makes the pair ineligible for matching; callers
// must check Eligible first.
func Key(itemName, batch string) (string, string) {
	return Normalize(itemName), Normalize(batch)
}

// Eligible reports whether a (name, batch) pair can participate in identity
// matching at all.
func Eligible(itemName, batch string) bool {
	return Normalize(itemName) != "" && Normalize(batch) != ""
}

// SameLot reports whether a persisted lot and an incoming line item refer to
// the same (name, batch) identity.
func SameLot(rec domain.LotRecord, item domain.LineItem) bool {
	return Normalize(rec.ItemName) == Normalize(item.ItemName) &&
		Normalize(rec.Batch) == Normalize(item.Batch)
}

// ParseDecimalOrZero parses a decimal-as-text field, treating blank or
// unparsable input as zero. Quantity accumulation and amount math go
// through here so bad numbers degrade the same way everywhere.
func ParseDecimalOrZero(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
