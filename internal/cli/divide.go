package cli

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Dandandan2024/PropertyCalculator/internal/division"

	"github.com/google/subcommands"
)

type divideCmd struct {
	csvOut  string
	xlsxOut string

	stdout io.Writer
	stderr io.Writer
}

func (*divideCmd) Name() string     { return "divide" }
func (*divideCmd) Synopsis() string { return "splits assets and liabilities from a file" }
func (*divideCmd) Usage() string {
	return `homebook divide [-csv <out.csv>] [-xlsx <out.xlsx>] <items.csv>

  Reads line items, one per line:

    category,description,your value,other party's value,agreed value,allocation %

  category is asset or liability. Blank lines and lines starting with # are
  skipped, as is a first line starting with "category". Numbers are read
  leniently: anything unreadable counts as 0. Allocation is the percent of
  the agreed value going to the other party and defaults to 50.

  Prints every row with its label, then the totals.
`
}

func (p *divideCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.csvOut, "csv", "", "Also write the CSV export to this file")
	f.StringVar(&p.xlsxOut, "xlsx", "", "Also write the Excel export to this file")
}

func (p *divideCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.stdout == nil {
		p.stdout = os.Stdout
	}
	if p.stderr == nil {
		p.stderr = os.Stderr
	}
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	in, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(p.stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	e := division.NewEngine()
	if err := LoadItems(e, in); err != nil {
		fmt.Fprintf(p.stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printSheet(p.stdout, e.Sheet())

	if p.csvOut != "" {
		if err := os.WriteFile(p.csvOut, []byte(e.ExportCSV()), 0o644); err != nil {
			fmt.Fprintf(p.stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if p.xlsxOut != "" {
		if err := writeXLSX(e, p.xlsxOut); err != nil {
			fmt.Fprintf(p.stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// LoadItems adds every line item read from r to e.
func LoadItems(e *division.Engine, r io.Reader) error {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for n := 1; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read items: %w", err)
		}
		if n == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "category") {
			continue
		}

		cat, err := division.ParseCategory(rec[0])
		if err != nil {
			return fmt.Errorf("record %d: %w", n, err)
		}
		field := func(i int) string {
			if i < len(rec) {
				return rec[i]
			}
			return ""
		}

		item := division.NewLineItem()
		item.Description = strings.TrimSpace(field(1))
		item.YourValue = division.ParseNumber(field(2))
		item.OtherValue = division.ParseNumber(field(3))
		item.AgreedValue = division.ParseNumber(field(4))
		if strings.TrimSpace(field(5)) != "" {
			item.AllocationPercent = division.ParseNumber(field(5))
		}
		e.AddLineItem(cat, item)
	}
}

func printSheet(w io.Writer, s division.Sheet) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	section := func(name string, rows []division.Row) {
		fmt.Fprintf(tw, "%s\n", name)
		for _, r := range rows {
			fmt.Fprintf(tw, "  %s\t%s\n", r.Description, r.Label)
		}
	}
	section("Assets", s.Assets)
	section("Liabilities", s.Liabilities)

	t := s.Totals
	fmt.Fprintf(tw, "\n\tYou\tOther Party\n")
	fmt.Fprintf(tw, "Assets\t%s\t%s\n", t.AssetsYou.StringFixed(2), t.AssetsOther.StringFixed(2))
	fmt.Fprintf(tw, "Liabilities\t%s\t%s\n", t.LiabilitiesYou.StringFixed(2), t.LiabilitiesOther.StringFixed(2))
	fmt.Fprintf(tw, "Net\t%s\t%s\n", t.NetYou.StringFixed(2), t.NetOther.StringFixed(2))
	tw.Flush()
}

func writeXLSX(e *division.Engine, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.ExportXLSX(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
