// Package validate holds the entry-form field checks. These run in the UI
// layer before a row lands in the draft; the reconciliation engine itself
// only ever skips rows with a missing identity.
package validate

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"medibill/backend/internal/domain"
)

func NotEmpty(v string) bool {
	return strings.TrimSpace(v) != ""
}

func IsNumber(v string) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(v))
	return err == nil
}

// IsQuantity accepts a parsable, strictly positive quantity.
func IsQuantity(v string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	return err == nil && d.IsPositive()
}

// IsDate checks the bill header date format (YYYY-MM-DD).
func IsDate(v string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(v))
	return err == nil
}

// IsExpiry checks the expiry column format (MM/YY).
func IsExpiry(v string) bool {
	_, err := time.Parse("01/06", strings.TrimSpace(v))
	return err == nil
}

// LineItem returns the first problem with an entry row, or "" when the row
// is acceptable. Expiry and rate are only checked when present; the grid
// allows them to be left blank.
func LineItem(item domain.LineItem) string {
	if !NotEmpty(item.ItemName) {
		return "Item name cannot be empty."
	}
	if !NotEmpty(item.Batch) {
		return "Batch number cannot be empty."
	}
	if NotEmpty(item.ExpDt) && !IsExpiry(item.ExpDt) {
		return "Expiry must be in MM/YY format."
	}
	if !IsQuantity(item.Qty) {
		return "Quantity must be a positive number."
	}
	if NotEmpty(item.PTR) && !IsNumber(item.PTR) {
		return "PTR must be a valid number."
	}
	if NotEmpty(item.MRP) && !IsNumber(item.MRP) {
		return "MRP must be a valid number."
	}
	return ""
}

// BillHeader returns the first problem with the draft's header fields, or
// "".
func BillHeader(d domain.SessionDraft) string {
	if !NotEmpty(d.Party) {
		return "Party name cannot be empty."
	}
	if NotEmpty(d.EntryDt) && !IsDate(d.EntryDt) {
		return "Entry date must be in YYYY-MM-DD format."
	}
	if NotEmpty(d.BillDt) && !IsDate(d.BillDt) {
		return "Bill date must be in YYYY-MM-DD format."
	}
	return ""
}
