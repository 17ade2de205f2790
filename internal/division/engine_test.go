package division

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineItem_SaleScenario(t *testing.T) {
	e := NewEngine()
	id := e.AddRow(Asset)
	e.SetField(Asset, id, FieldAgreedValue, "1000")
	e.SetField(Asset, id, FieldAllocation, "30")

	it, ok := e.Item(Asset, id)
	if !ok {
		t.Fatal("item missing")
	}
	if got := it.YourShare().StringFixed(2); got != "700.00" {
		t.Errorf("YourShare = %s, want 700.00", got)
	}
	if got := it.OtherShare().StringFixed(2); got != "300.00" {
		t.Errorf("OtherShare = %s, want 300.00", got)
	}
	if got, want := it.Label(), "Sale: 1000 (You: 700.00, Other Party: 300.00)"; got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}
}

func TestLineItem_TransferScenarios(t *testing.T) {
	toYou := LineItem{AgreedValue: d("500"), AllocationPercent: d("0")}
	if got, want := toYou.Label(), "Transfer to You: 500"; got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}
	if got := toYou.YourShare().StringFixed(2); got != "500.00" {
		t.Errorf("YourShare = %s, want 500.00", got)
	}
	if got := toYou.OtherShare().StringFixed(2); got != "0.00" {
		t.Errorf("OtherShare = %s, want 0.00", got)
	}

	toOther := LineItem{AgreedValue: d("250.5"), AllocationPercent: d("100")}
	if got, want := toOther.Label(), "Transfer to Other Party: 250.5"; got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}
	if !toOther.YourShare().IsZero() {
		t.Errorf("YourShare = %s, want 0", toOther.YourShare())
	}
}

func TestLineItem_SharesSumToAgreed(t *testing.T) {
	agreed := []string{"0", "1", "999.99", "123456.78", "-300", "0.01"}
	for _, a := range agreed {
		for p := 0; p <= 100; p++ {
			it := LineItem{AgreedValue: d(a), AllocationPercent: decimal.NewFromInt(int64(p))}
			if sum := it.YourShare().Add(it.OtherShare()); !sum.Equal(it.AgreedValue) {
				t.Fatalf("agreed %s at %d%%: %s + %s = %s", a, p, it.YourShare(), it.OtherShare(), sum)
			}
		}
	}
	// fractional percentages too
	it := LineItem{AgreedValue: d("1000"), AllocationPercent: d("33.333")}
	if sum := it.YourShare().Add(it.OtherShare()); !sum.Equal(d("1000")) {
		t.Errorf("fractional split sums to %s", sum)
	}
}

func TestAddLineItem_Defaults(t *testing.T) {
	e := NewEngine()
	id := e.AddRow(Liability)
	it, ok := e.Item(Liability, id)
	if !ok {
		t.Fatal("row missing")
	}
	if !it.AllocationPercent.Equal(d("50")) {
		t.Errorf("AllocationPercent = %s, want 50", it.AllocationPercent)
	}
	if it.Description != "" || !it.AgreedValue.IsZero() || !it.YourValue.IsZero() || !it.OtherValue.IsZero() {
		t.Errorf("new row = %+v", it)
	}
	if len(e.Items(Asset)) != 0 {
		t.Error("row leaked into assets")
	}
}

func TestAddLineItem_UniqueIDsAndUnknownCategory(t *testing.T) {
	e := NewEngine()
	seen := map[ItemID]bool{}
	for i := 0; i < 20; i++ {
		id := e.AddRow(Asset)
		if id == "" || seen[id] {
			t.Fatalf("bad id %q", id)
		}
		seen[id] = true
	}
	if id := e.AddRow(Category("vehicle")); id != "" {
		t.Errorf("AddRow(unknown) = %q, want empty", id)
	}
}

func TestSetField_LenientNumbers(t *testing.T) {
	e := NewEngine()
	id := e.AddRow(Asset)

	cases := []struct {
		in   string
		want string
	}{
		{"1200", "1200"},
		{"  42.5 ", "42.5"},
		{"12abc", "12"},
		{"abc", "0"},
		{"", "0"},
		{"-", "0"},
		{"1,000", "1"},
		{"1e3", "1000"},
	}
	for _, c := range cases {
		e.SetField(Asset, id, FieldYourValue, c.in)
		it, _ := e.Item(Asset, id)
		if !it.YourValue.Equal(d(c.want)) {
			t.Errorf("SetField(yourValue, %q) = %s, want %s", c.in, it.YourValue, c.want)
		}
	}
}

func TestSetField_OutOfRangeNumbers(t *testing.T) {
	e := NewEngine()
	id := e.AddRow(Asset)

	for _, in := range []string{"1e10000000", "-1e10000000", "1e-10000000", "1" + strings.Repeat("0", 400)} {
		e.SetField(Asset, id, FieldAgreedValue, in)
		it, _ := e.Item(Asset, id)
		if !it.AgreedValue.IsZero() {
			t.Errorf("SetField(agreedValue, %.20q) exponent = %d, want 0 value", in, it.AgreedValue.Exponent())
		}
	}

	e.SetField(Asset, id, FieldAgreedValue, "1e10000000")
	if want := CSVHeader + "\n" + ",0,0,0,50,0.00,0.00\n"; e.ExportCSV() != want {
		t.Errorf("ExportCSV() = %q, want %q", e.ExportCSV(), want)
	}
	it, _ := e.Item(Asset, id)
	if got := it.Label(); got != "Sale: 0 (You: 0.00, Other Party: 0.00)" {
		t.Errorf("Label = %q", got)
	}
	if tot := e.Totals(); !tot.AssetsYou.IsZero() || !tot.AssetsOther.IsZero() {
		t.Errorf("totals = %+v, want zero", tot)
	}

	e.SetField(Asset, id, FieldAgreedValue, "1e300")
	it, _ = e.Item(Asset, id)
	if !it.AgreedValue.Equal(d("1e300")) {
		t.Errorf("agreedValue = %s, want 1e300", it.AgreedValue)
	}
}

func TestAddLineItem_BoundsDecodedValues(t *testing.T) {
	e := NewEngine()
	huge := d("1e10000000")
	id := e.AddLineItem(Liability, LineItem{
		YourValue:         huge,
		OtherValue:        d("1e-10000000"),
		AgreedValue:       huge,
		AllocationPercent: huge,
	})

	it, _ := e.Item(Liability, id)
	if !it.YourValue.IsZero() || !it.OtherValue.IsZero() || !it.AgreedValue.IsZero() {
		t.Errorf("values = %d/%d/%d exponents, want all zero", it.YourValue.Exponent(), it.OtherValue.Exponent(), it.AgreedValue.Exponent())
	}
	if !it.AllocationPercent.IsZero() {
		t.Errorf("allocation = %s, want 0", it.AllocationPercent)
	}
	if got := it.Label(); got != "Transfer to You: 0" {
		t.Errorf("Label = %q", got)
	}
}

func TestSetField_ClampsAllocation(t *testing.T) {
	e := NewEngine()
	id := e.AddRow(Asset)

	e.SetField(Asset, id, FieldAllocation, "150")
	it, _ := e.Item(Asset, id)
	if !it.AllocationPercent.Equal(d("100")) {
		t.Errorf("allocation = %s, want 100", it.AllocationPercent)
	}
	e.SetField(Asset, id, FieldAllocation, "-5")
	it, _ = e.Item(Asset, id)
	if !it.AllocationPercent.IsZero() {
		t.Errorf("allocation = %s, want 0", it.AllocationPercent)
	}
}

func TestSetField_DescriptionAndUnknowns(t *testing.T) {
	e := NewEngine()
	id := e.AddRow(Asset)

	e.SetField(Asset, id, FieldDescription, "House, main")
	e.SetField(Asset, id, Field("colour"), "red")
	e.SetField(Asset, "missing", FieldAgreedValue, "5")
	e.SetField(Liability, id, FieldAgreedValue, "5") // wrong category

	it, _ := e.Item(Asset, id)
	if it.Description != "House, main" {
		t.Errorf("Description = %q", it.Description)
	}
	if !it.AgreedValue.IsZero() {
		t.Errorf("AgreedValue = %s, want 0", it.AgreedValue)
	}
}

func TestRemoveLineItem(t *testing.T) {
	e := NewEngine()
	a := e.AddRow(Asset)
	b := e.AddRow(Asset)
	e.SetField(Asset, a, FieldAgreedValue, "100")
	e.SetField(Asset, b, FieldAgreedValue, "40")

	e.RemoveLineItem(Asset, a)
	items := e.Items(Asset)
	if len(items) != 1 || items[0].ID != b {
		t.Fatalf("items = %+v", items)
	}
	if got := e.Totals().AssetsYou; !got.Equal(d("20")) {
		t.Errorf("AssetsYou after remove = %s, want 20", got)
	}

	// absent id: nothing happens, nothing panics
	e.RemoveLineItem(Asset, a)
	e.RemoveLineItem(Liability, b)
	if len(e.Items(Asset)) != 1 {
		t.Error("no-op remove changed the rows")
	}
}

func TestTotals_FreshAfterEveryMutation(t *testing.T) {
	e := NewEngine()

	house := e.AddRow(Asset)
	e.SetField(Asset, house, FieldAgreedValue, "300000")
	e.SetField(Asset, house, FieldAllocation, "40")

	car := e.AddRow(Asset)
	e.SetField(Asset, car, FieldAgreedValue, "20000")
	e.SetField(Asset, car, FieldAllocation, "100")

	loan := e.AddRow(Liability)
	e.SetField(Liability, loan, FieldAgreedValue, "100000")

	want := AggregateTotals{
		AssetsYou:        d("180000"),
		AssetsOther:      d("140000"),
		LiabilitiesYou:   d("50000"),
		LiabilitiesOther: d("50000"),
		NetYou:           d("130000"),
		NetOther:         d("90000"),
	}
	assertTotals(t, e.Totals(), want)
	assertTotals(t, e.RecomputeAggregates(), want)

	// the totals always equal a fresh sum over the rows
	e.SetField(Asset, car, FieldAllocation, "0")
	var you, other decimal.Decimal
	for _, it := range e.Items(Asset) {
		you = you.Add(it.YourShare())
		other = other.Add(it.OtherShare())
	}
	got := e.Totals()
	if !got.AssetsYou.Equal(you) || !got.AssetsOther.Equal(other) {
		t.Errorf("stale totals: %+v, want you %s other %s", got, you, other)
	}
	if !got.NetYou.Equal(got.AssetsYou.Sub(got.LiabilitiesYou)) {
		t.Errorf("NetYou = %s", got.NetYou)
	}
}

func assertTotals(t *testing.T, got, want AggregateTotals) {
	t.Helper()
	pairs := []struct {
		name      string
		got, want decimal.Decimal
	}{
		{"AssetsYou", got.AssetsYou, want.AssetsYou},
		{"AssetsOther", got.AssetsOther, want.AssetsOther},
		{"LiabilitiesYou", got.LiabilitiesYou, want.LiabilitiesYou},
		{"LiabilitiesOther", got.LiabilitiesOther, want.LiabilitiesOther},
		{"NetYou", got.NetYou, want.NetYou},
		{"NetOther", got.NetOther, want.NetOther},
	}
	for _, p := range pairs {
		if !p.got.Equal(p.want) {
			t.Errorf("%s = %s, want %s", p.name, p.got, p.want)
		}
	}
}

func TestExportCSV_SingleRow(t *testing.T) {
	e := NewEngine()
	e.AddLineItem(Asset, LineItem{
		Description:       "Desc",
		YourValue:         d("100"),
		OtherValue:        d("200"),
		AgreedValue:       d("150"),
		AllocationPercent: d("50"),
	})

	want := CSVHeader + "\n" + "Desc,100,200,150,50,75.00,75.00\n"
	if got := e.ExportCSV(); got != want {
		t.Errorf("ExportCSV() = %q, want %q", got, want)
	}
}

func TestExportCSV_AssetsThenLiabilitiesUnquoted(t *testing.T) {
	e := NewEngine()
	loan := e.AddRow(Liability)
	e.SetField(Liability, loan, FieldDescription, "Mortgage")
	e.SetField(Liability, loan, FieldAgreedValue, "1000")
	e.SetField(Liability, loan, FieldAllocation, "0")

	home := e.AddRow(Asset)
	e.SetField(Asset, home, FieldDescription, "Home, with garden")

	lines := strings.Split(e.ExportCSV(), "\n")
	if len(lines) != 4 || lines[3] != "" {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "Description,Your Value,Other Party's Value,Agreed Valuation,Allocation,You,Other Party" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Home, with garden,0,0,0,50,0.00,0.00" {
		t.Errorf("asset line = %q", lines[1])
	}
	if lines[2] != "Mortgage,0,0,1000,0,1000.00,0.00" {
		t.Errorf("liability line = %q", lines[2])
	}
}

func TestExportCSV_Empty(t *testing.T) {
	if got := NewEngine().ExportCSV(); got != CSVHeader+"\n" {
		t.Errorf("ExportCSV() = %q", got)
	}
}

func TestExportXLSX(t *testing.T) {
	e := NewEngine()
	id := e.AddRow(Asset)
	e.SetField(Asset, id, FieldDescription, "Boat")
	e.SetField(Asset, id, FieldAgreedValue, "1000")
	e.SetField(Asset, id, FieldAllocation, "30")

	var buf bytes.Buffer
	if err := e.ExportXLSX(&buf); err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Property Division")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][0] != "Category" || rows[1][1] != "Boat" {
		t.Errorf("first rows = %v", rows[:2])
	}
	if got := rows[1][8]; got != "Sale: 1000 (You: 700.00, Other Party: 300.00)" {
		t.Errorf("label cell = %q", got)
	}

	for cell, want := range map[string]string{"A4": "Total assets", "G4": "700", "H4": "300", "A6": "Net"} {
		if got, err := f.GetCellValue("Property Division", cell); err != nil || got != want {
			t.Errorf("cell %s = %q, %v, want %q", cell, got, err, want)
		}
	}
	if w, err := f.GetColWidth("Property Division", "I"); err != nil || w != 45 {
		t.Errorf("label column width = %v, %v, want 45", w, err)
	}
}

func TestSheet(t *testing.T) {
	e := NewEngine()
	id := e.AddRow(Asset)
	e.SetField(Asset, id, FieldAgreedValue, "500")
	e.SetField(Asset, id, FieldAllocation, "0")

	s := e.Sheet()
	if len(s.Assets) != 1 || len(s.Liabilities) != 0 {
		t.Fatalf("sheet = %+v", s)
	}
	r := s.Assets[0]
	if r.Label != "Transfer to You: 500" || r.YourShare.StringFixed(2) != "500.00" {
		t.Errorf("row = %+v", r)
	}
	if !s.Totals.NetYou.Equal(d("500")) {
		t.Errorf("NetYou = %s", s.Totals.NetYou)
	}
}
