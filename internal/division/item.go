// Package division is the allocation engine of the property division
// calculator: line items, their split between the two parties, running
// totals and exports.
package division

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category groups line items. Each category is its own ordered sequence.
type Category string

const (
	Asset     Category = "asset"
	Liability Category = "liability"
)

// Categories lists the categories in display and export order.
var Categories = []Category{Asset, Liability}

func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset", "assets":
		return Asset, nil
	case "liability", "liabilities":
		return Liability, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ItemID is a stable handle to a line item.
type ItemID string

// DefaultAllocation is the allocation percent of a new row.
var DefaultAllocation = decimal.NewFromInt(50)

var hundred = decimal.NewFromInt(100)

// LineItem is one asset or liability row.
// AllocationPercent is the share (0-100) of AgreedValue that goes to the
// other party; the rest goes to you.
type LineItem struct {
	ID                ItemID          `json:"id"`
	Description       string          `json:"description"`
	YourValue         decimal.Decimal `json:"yourValue"`
	OtherValue        decimal.Decimal `json:"otherValue"`
	AgreedValue       decimal.Decimal `json:"agreedValue"`
	AllocationPercent decimal.Decimal `json:"allocationPercent"`
}

// NewLineItem returns an empty row with the default 50/50 split.
func NewLineItem() LineItem {
	return LineItem{AllocationPercent: DefaultAllocation}
}

// OtherShare is AgreedValue × AllocationPercent/100.
func (it LineItem) OtherShare() decimal.Decimal {
	return it.AgreedValue.Mul(it.AllocationPercent).Shift(-2)
}

// YourShare is AgreedValue × (1 − AllocationPercent/100).
func (it LineItem) YourShare() decimal.Decimal {
	return it.AgreedValue.Mul(hundred.Sub(it.AllocationPercent)).Shift(-2)
}

// Label classifies the row: a full transfer to one side, or a sale split
// between both.
func (it LineItem) Label() string {
	switch {
	case it.AllocationPercent.IsZero():
		return "Transfer to You: " + it.AgreedValue.String()
	case it.AllocationPercent.Equal(hundred):
		return "Transfer to Other Party: " + it.AgreedValue.String()
	default:
		return fmt.Sprintf("Sale: %s (You: %s, Other Party: %s)",
			it.AgreedValue.String(), it.YourShare().StringFixed(2), it.OtherShare().StringFixed(2))
	}
}

// clampPercent keeps an allocation inside the slider range.
func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// Row is a line item with its derived values, ready to display.
type Row struct {
	LineItem
	YourShare  decimal.Decimal `json:"yourShare"`
	OtherShare decimal.Decimal `json:"otherShare"`
	Label      string          `json:"label"`
}

func rowOf(it LineItem) Row {
	return Row{
		LineItem:   it,
		YourShare:  it.YourShare(),
		OtherShare: it.OtherShare(),
		Label:      it.Label(),
	}
}
