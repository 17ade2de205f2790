package division

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field names a settable column of a line item.
type Field string

const (
	FieldDescription Field = "description"
	FieldYourValue   Field = "yourValue"
	FieldOtherValue  Field = "otherValue"
	FieldAgreedValue Field = "agreedValue"
	FieldAllocation  Field = "allocationPercent"
)

// AggregateTotals are the per-party sums. Net is assets minus liabilities.
type AggregateTotals struct {
	AssetsYou        decimal.Decimal `json:"assetsYou"`
	AssetsOther      decimal.Decimal `json:"assetsOther"`
	LiabilitiesYou   decimal.Decimal `json:"liabilitiesYou"`
	LiabilitiesOther decimal.Decimal `json:"liabilitiesOther"`
	NetYou           decimal.Decimal `json:"netYou"`
	NetOther         decimal.Decimal `json:"netOther"`
}

// Sheet is everything the calculator screen shows.
type Sheet struct {
	Assets      []Row           `json:"assets"`
	Liabilities []Row           `json:"liabilities"`
	Totals      AggregateTotals `json:"totals"`
}

// Engine owns the asset and liability sequences. Every mutation recomputes
// the totals before returning, so Totals is never stale.
type Engine struct {
	newID func() ItemID

	mu     sync.Mutex
	items  map[Category][]LineItem
	totals AggregateTotals
}

func NewEngine() *Engine {
	return &Engine{
		newID: func() ItemID { return ItemID(uuid.New().String()) },
		items: make(map[Category][]LineItem),
	}
}

func known(c Category) bool {
	return c == Asset || c == Liability
}

// AddLineItem appends item to category and returns its handle. The
// allocation is clamped to [0,100]. An unknown category adds nothing and
// returns "".
func (e *Engine) AddLineItem(c Category, item LineItem) ItemID {
	if !known(c) {
		return ""
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	item.ID = e.newID()
	item.YourValue = boundNumber(item.YourValue)
	item.OtherValue = boundNumber(item.OtherValue)
	item.AgreedValue = boundNumber(item.AgreedValue)
	item.AllocationPercent = clampPercent(boundNumber(item.AllocationPercent))
	e.items[c] = append(e.items[c], item)
	e.recompute()
	return item.ID
}

// AddRow appends an empty row with the default split.
func (e *Engine) AddRow(c Category) ItemID {
	return e.AddLineItem(c, NewLineItem())
}

// RemoveLineItem drops the row. A missing id is a no-op.
func (e *Engine) RemoveLineItem(c Category, id ItemID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.items[c]
	for i := range list {
		if list[i].ID == id {
			e.items[c] = append(list[:i], list[i+1:]...)
			break
		}
	}
	e.recompute()
}

// SetField updates one column from raw input. Numbers are parsed with
// ParseNumber; unknown ids and fields are ignored.
func (e *Engine) SetField(c Category, id ItemID, field Field, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.items[c]
	for i := range list {
		if list[i].ID != id {
			continue
		}
		it := &list[i]
		switch field {
		case FieldDescription:
			it.Description = value
		case FieldYourValue:
			it.YourValue = ParseNumber(value)
		case FieldOtherValue:
			it.OtherValue = ParseNumber(value)
		case FieldAgreedValue:
			it.AgreedValue = ParseNumber(value)
		case FieldAllocation:
			it.AllocationPercent = clampPercent(ParseNumber(value))
		}
		break
	}
	e.recompute()
}

// RecomputeAggregates folds both sequences into fresh totals.
func (e *Engine) RecomputeAggregates() AggregateTotals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recompute()
}

func (e *Engine) recompute() AggregateTotals {
	var t AggregateTotals
	for _, it := range e.items[Asset] {
		t.AssetsYou = t.AssetsYou.Add(it.YourShare())
		t.AssetsOther = t.AssetsOther.Add(it.OtherShare())
	}
	for _, it := range e.items[Liability] {
		t.LiabilitiesYou = t.LiabilitiesYou.Add(it.YourShare())
		t.LiabilitiesOther = t.LiabilitiesOther.Add(it.OtherShare())
	}
	t.NetYou = t.AssetsYou.Sub(t.LiabilitiesYou)
	t.NetOther = t.AssetsOther.Sub(t.LiabilitiesOther)
	e.totals = t
	return t
}

// Totals returns the totals computed by the last mutation.
func (e *Engine) Totals() AggregateTotals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totals
}

// Item looks up one row.
func (e *Engine) Item(c Category, id ItemID) (LineItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, it := range e.items[c] {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}

// Items returns a copy of the category's rows in order.
func (e *Engine) Items(c Category) []LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]LineItem, len(e.items[c]))
	copy(out, e.items[c])
	return out
}

// Sheet returns both tables with derived shares and labels, plus totals.
func (e *Engine) Sheet() Sheet {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Sheet{
		Assets:      make([]Row, 0, len(e.items[Asset])),
		Liabilities: make([]Row, 0, len(e.items[Liability])),
		Totals:      e.totals,
	}
	for _, it := range e.items[Asset] {
		s.Assets = append(s.Assets, rowOf(it))
	}
	for _, it := range e.items[Liability] {
		s.Liabilities = append(s.Liabilities, rowOf(it))
	}
	return s
}

// Reset removes every row.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = make(map[Category][]LineItem)
	e.recompute()
}
