// Package export renders account snapshots as CSV.
//
// The layout is fixed: a Transactions section, a blank line, then a
// Budgets section. Free-text fields are written as-is, with no quoting
// or escaping of embedded commas and newlines; consumers of the format
// rely on the exact bytes, so encoding/csv-style quoting would break
// them.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

const (
	transactionsHeader = "Date,Type,Category,Amount,Description"
	budgetsHeader      = "Category,Percentage,Spent,Remaining"
)

// Write emits the two-section CSV snapshot to w.
func Write(w io.Writer, txs []core.Transaction, cats []core.Category) error {
	bw := bufio.NewWriter(w)

	writeLine(bw, "Transactions")
	writeLine(bw, transactionsHeader)
	for _, tx := range txs {
		writeLine(bw, strings.Join([]string{
			tx.OccurredAt.Format("2006-01-02"),
			strings.ToUpper(string(tx.Kind)),
			tx.CategoryName,
			formatNumber(tx.Amount),
			tx.Description,
		}, ","))
	}

	writeLine(bw, "")
	writeLine(bw, "Budgets")
	writeLine(bw, budgetsHeader)
	for _, cat := range cats {
		writeLine(bw, strings.Join([]string{
			cat.Name,
			formatNumber(cat.Percentage) + "%",
			formatNumber(cat.Spent),
			formatNumber(cat.Amount - cat.Spent),
		}, ","))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeLine(bw *bufio.Writer, line string) {
	bw.WriteString(line)
	bw.WriteByte('\n')
}

// formatNumber prints a float without a fixed number of decimals: whole
// values come out bare (5000, not 5000.00).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
