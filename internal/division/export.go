package division

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// CSVHeader is the first line of every export.
const CSVHeader = "Description,Your Value,Other Party's Value,Agreed Valuation,Allocation,You,Other Party"

// ExportCSV writes assets then liabilities, one line per item, each line
// ending in "\n". Fields are written raw: a comma inside a description is
// not quoted and shifts the columns of that line.
func (e *Engine) ExportCSV() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteByte('\n')
	for _, c := range Categories {
		for _, it := range e.items[c] {
			b.WriteString(csvLine(it))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func csvLine(it LineItem) string {
	return strings.Join([]string{
		it.Description,
		it.YourValue.String(),
		it.OtherValue.String(),
		it.AgreedValue.String(),
		it.AllocationPercent.String(),
		it.YourShare().StringFixed(2),
		it.OtherShare().StringFixed(2),
	}, ",")
}

const sheetName = "Property Division"

// ExportXLSX writes the same table as ExportCSV as a workbook, with a
// category column and the totals underneath.
func (e *Engine) ExportXLSX(w io.Writer) error {
	sheet := e.Sheet()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headers := []any{"Category", "Description", "Your Value", "Other Party's Value",
		"Agreed Valuation", "Allocation", "You", "Other Party", "Label"}
	if err := setRow(f, 1, headers); err != nil {
		return err
	}

	row := 2
	write := func(category string, r Row) error {
		values := []any{
			category,
			r.Description,
			r.YourValue.InexactFloat64(),
			r.OtherValue.InexactFloat64(),
			r.AgreedValue.InexactFloat64(),
			r.AllocationPercent.InexactFloat64(),
			money(r.YourShare),
			money(r.OtherShare),
			r.Label,
		}
		row++
		return setRow(f, row-1, values)
	}
	for _, r := range sheet.Assets {
		if err := write("Asset", r); err != nil {
			return err
		}
	}
	for _, r := range sheet.Liabilities {
		if err := write("Liability", r); err != nil {
			return err
		}
	}

	// totals, label in A and shares under You / Other Party
	row++
	t := sheet.Totals
	totals := []struct {
		label      string
		you, other decimal.Decimal
	}{
		{"Total assets", t.AssetsYou, t.AssetsOther},
		{"Total liabilities", t.LiabilitiesYou, t.LiabilitiesOther},
		{"Net", t.NetYou, t.NetOther},
	}
	for _, tr := range totals {
		values := []any{tr.label, nil, nil, nil, nil, nil, money(tr.you), money(tr.other)}
		if err := setRow(f, row, values); err != nil {
			return err
		}
		row++
	}

	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 12},
		{"B", "B", 30},
		{"C", "H", 16},
		{"I", "I", 45},
	}
	for _, cw := range widths {
		if err := f.SetColWidth(sheetName, cw.from, cw.to, cw.width); err != nil {
			return fmt.Errorf("set column width %s:%s: %w", cw.from, cw.to, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// setRow fills row from column A, leaving nil values blank.
func setRow(f *excelize.File, row int, values []any) error {
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}
	return nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
