package division

import (
	"encoding/json"
	"testing"
)

func TestDispatch(t *testing.T) {
	e := NewEngine()

	id, err := e.Dispatch(Command{Op: OpAdd, Category: "assets"})
	if err != nil || id == "" {
		t.Fatalf("add = %q, %v", id, err)
	}
	if _, err := e.Dispatch(Command{Op: OpSet, Category: "asset", ID: id, Field: FieldAgreedValue, Value: "80"}); err != nil {
		t.Fatalf("set error = %v", err)
	}
	if got := e.Totals().AssetsYou; !got.Equal(d("40")) {
		t.Errorf("AssetsYou = %s, want 40", got)
	}

	if _, err := e.Dispatch(Command{Op: OpRemove, Category: "asset", ID: id}); err != nil {
		t.Fatalf("remove error = %v", err)
	}
	if _, err := e.Dispatch(Command{Op: OpRemove, Category: "asset", ID: id}); err != nil {
		t.Errorf("second remove error = %v, want nil", err)
	}
	if len(e.Items(Asset)) != 0 {
		t.Error("row not removed")
	}
}

func TestDispatch_AddWithItem(t *testing.T) {
	e := NewEngine()
	id, err := e.Dispatch(Command{Op: OpAdd, Category: "liability", Item: &LineItem{
		Description: "Card", AgreedValue: d("90"), AllocationPercent: d("100"),
	}})
	if err != nil {
		t.Fatal(err)
	}
	it, _ := e.Item(Liability, id)
	if it.Label() != "Transfer to Other Party: 90" {
		t.Errorf("Label = %q", it.Label())
	}
}

func TestDispatch_AddWithOverflowingItem(t *testing.T) {
	e := NewEngine()
	var cmd Command
	if err := json.Unmarshal([]byte(`{"op":"add","category":"asset","item":{"agreedValue":"1e10000000","allocationPercent":"30"}}`), &cmd); err != nil {
		t.Fatal(err)
	}
	id, err := e.Dispatch(cmd)
	if err != nil {
		t.Fatal(err)
	}
	it, _ := e.Item(Asset, id)
	if got := it.Label(); got != "Sale: 0 (You: 0.00, Other Party: 0.00)" {
		t.Errorf("Label = %q", got)
	}
}

func TestDispatch_Malformed(t *testing.T) {
	e := NewEngine()
	bad := []Command{
		{Op: OpAdd, Category: "boats"},
		{Op: "explode", Category: "asset"},
		{Op: OpSet, Category: "asset", ID: "x", Field: "colour"},
	}
	for _, c := range bad {
		if _, err := e.Dispatch(c); err == nil {
			t.Errorf("Dispatch(%+v) error = nil, want error", c)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{"asset": Asset, "Assets": Asset, " liability ": Liability, "LIABILITIES": Liability} {
		got, err := ParseCategory(in)
		if err != nil || got != want {
			t.Errorf("ParseCategory(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseCategory("income"); err == nil {
		t.Error("ParseCategory(income) error = nil")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if r.For("a") != r.For("a") || r.For("a") == r.For("b") {
		t.Error("registry must return one engine per owner")
	}
}
