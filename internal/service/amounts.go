package service

import (
	"strings"

	"medibill/backend/internal/domain"
	"medibill/backend/internal/lot"
)

// RecalculateAmounts fills the computed columns of an entry row:
// BASE = Qty * PTR, then Amount = BASE + BASE * GST% / 100, both rendered
// with two decimals. A blank or unparsable input leaves the dependent
// field as the caller sent it, matching how the entry grid recalculates
// only when both operands are present.
func RecalculateAmounts(item domain.LineItem) domain.LineItem {
	qty := strings.TrimSpace(item.Qty)
	ptr := strings.TrimSpace(item.PTR)
	if qty != "" && ptr != "" {
		base := lot.ParseDecimalOrZero(qty).Mul(lot.ParseDecimalOrZero(ptr))
		item.Base = base.StringFixed(2)
	}

	base := strings.TrimSpace(item.Base)
	gst := strings.TrimSpace(item.GSTPercent)
	if base != "" && gst != "" {
		baseVal := lot.ParseDecimalOrZero(base)
		gstVal := lot.ParseDecimalOrZero(gst)
		amount := baseVal.Add(baseVal.Mul(gstVal).Div(hundred))
		item.Amount = amount.StringFixed(2)
	}
	return item
}

var hundred = lot.ParseDecimalOrZero("100")
