// Package export renders project data as spreadsheet-friendly CSV.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/workplan"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding selects the character set of an export
type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "latin1"
)

// Charset is the name to announce in a Content-Type header
func (e Encoding) Charset() string {
	if e == EncodingLatin1 {
		return "windows-1252"
	}
	return "utf-8"
}

// ParseEncoding accepts the usual spellings of the supported encodings
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso-8859-1", "windows-1252", "cp1252":
		return EncodingLatin1, nil
	}
	return "", fmt.Errorf("unsupported encoding %q", s)
}

// Column headers of the expense export
const (
	ColExpenseID   = "Expense ID"
	ColReport      = "Report"
	ColDate        = "Date"
	ColCategory    = "Budget category"
	ColBudgetItem  = "Budget item"
	ColDescription = "Description"
	ColSupplier    = "Supplier"
	ColTaxID       = "Tax ID"
	ColAmount      = "Amount"
	ColReview      = "Review status"
)

// colSequence orders rows numerically; it is dropped before the frame is returned.
const colSequence = "seq"

// ExpenseFrame flattens every expense of a project into one row per entry,
// ordered by expense sequence number. Identifiers without a sequence sort last.
func ExpenseFrame(lines []domain.BudgetLine) dataframe.DataFrame {
	var seqs []int
	var ids, reports, dates, categories, items, descriptions, suppliers, taxIDs, amounts, reviews []string
	for _, line := range lines {
		for _, e := range line.Entries {
			seq, ok := workplan.ExpenseSequence(e.ExpenseID)
			if !ok {
				seq = math.MaxInt32
			}
			seqs = append(seqs, seq)
			ids = append(ids, e.ExpenseID)
			reports = append(reports, fmt.Sprintf("%d", e.ReportNumber))
			dates = append(dates, e.Date)
			categories = append(categories, line.Category)
			items = append(items, line.ExpenseName)
			descriptions = append(descriptions, e.Description)
			suppliers = append(suppliers, e.Supplier)
			taxIDs = append(taxIDs, e.TaxID)
			amounts = append(amounts, fmt.Sprintf("%.2f", e.Amount))
			reviews = append(reviews, string(e.ReviewStatus))
		}
	}

	col := func(values []string, name string) series.Series {
		if values == nil {
			values = []string{}
		}
		return series.New(values, series.String, name)
	}

	if seqs == nil {
		seqs = []int{}
	}

	df := dataframe.New(
		series.New(seqs, series.Int, colSequence),
		col(ids, ColExpenseID),
		col(reports, ColReport),
		col(dates, ColDate),
		col(categories, ColCategory),
		col(items, ColBudgetItem),
		col(descriptions, ColDescription),
		col(suppliers, ColSupplier),
		col(taxIDs, ColTaxID),
		col(amounts, ColAmount),
		col(reviews, ColReview),
	)
	if df.Nrow() > 1 {
		df = df.Arrange(dataframe.Sort(colSequence))
	}
	return df.Drop(colSequence)
}

// WriteExpensesCSV writes the expense export of lines to w
func WriteExpensesCSV(w io.Writer, lines []domain.BudgetLine, enc Encoding) error {
	df := ExpenseFrame(lines)
	if df.Err != nil {
		return fmt.Errorf("failed to build expense table: %w", df.Err)
	}

	if enc != EncodingLatin1 {
		if err := df.WriteCSV(w); err != nil {
			return fmt.Errorf("failed to write expense csv: %w", err)
		}
		return nil
	}

	// Characters outside Windows-1252 are replaced rather than failing the export.
	tw := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
	if err := df.WriteCSV(tw); err != nil {
		return fmt.Errorf("failed to write expense csv: %w", err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to flush expense csv: %w", err)
	}
	return nil
}
