// Package export renders settlement statements as XLSX workbooks for finance.
package export

import (
	"fmt"

	"helperhub/internal/core/application/usecases/queries"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "summary"
	linesSheet   = "settlements"
	dateLayout   = "2006-01-02"
)

var lineHeaders = []string{
	"Settlement",
	"Order",
	"Helper",
	"Work date",
	"Status",
	"Gross",
	"Commission",
	"Deduction",
	"Net",
	"Created",
}

// SettlementStatement builds a two-sheet workbook: per-status totals and
// one row per settlement.
func SettlementStatement(period queries.SettlementPeriod, totals []queries.SettlementTotals, lines []queries.StatementLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(linesSheet); err != nil {
		return nil, err
	}

	if err := writeSummary(f, period, totals); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	if err := writeLines(f, lines); err != nil {
		return nil, fmt.Errorf("write lines: %w", err)
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, period queries.SettlementPeriod, totals []queries.SettlementTotals) error {
	helper := "all"
	if period.HelperID != nil {
		helper = period.HelperID.String()
	}
	rows := [][]any{
		{"Settlement statement"},
		{"From", period.From.Format(dateLayout)},
		{"To (exclusive)", period.To.Format(dateLayout)},
		{"Helper", helper},
		{},
		{"Status", "Count", "Gross", "Commission", "Deduction", "Net"},
	}
	var sum queries.SettlementTotals
	for _, t := range totals {
		rows = append(rows, []any{t.Status, t.Count, t.Gross, t.Commission, t.Deduction, t.Net})
		sum.Count += t.Count
		sum.Gross += t.Gross
		sum.Commission += t.Commission
		sum.Deduction += t.Deduction
		sum.Net += t.Net
	}
	rows = append(rows, []any{"Total", sum.Count, sum.Gross, sum.Commission, sum.Deduction, sum.Net})

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "F", 16)
}

func writeLines(f *excelize.File, lines []queries.StatementLine) error {
	if err := f.SetSheetRow(linesSheet, "A1", &lineHeaders); err != nil {
		return err
	}
	for i, l := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			l.SettlementID.String(),
			l.OrderID.String(),
			l.HelperID.String(),
			l.ScheduledDate.Format(dateLayout),
			l.Status,
			l.Gross,
			l.Commission,
			l.Deduction,
			l.Net,
			l.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(linesSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(linesSheet, "A", "C", 38); err != nil {
		return err
	}
	return f.SetColWidth(linesSheet, "D", "J", 14)
}
