package dataprocessing

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

// ParseXLSX reads the first sheet of a workbook into a table. Short rows are
// padded with empty cells, blank rows are ignored and rows wider than the
// header are recorded as skipped. Line numbers are spreadsheet row numbers.
func ParseXLSX(r io.Reader) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &FormatError{Message: fmt.Sprintf("failed to open workbook: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Message: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &FormatError{Message: fmt.Sprintf("failed to read sheet %s: %v", sheets[0], err)}
	}

	headerIdx := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &FormatError{Message: "spreadsheet must contain headers and at least one data row"}
	}

	headers := trimAll(rows[headerIdx])
	table := &domain.Table{Headers: headers}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		lineNumber := i + 1
		if len(row) > len(headers) {
			table.Skipped = append(table.Skipped, lineNumber)
			continue
		}
		values := make([]string, len(headers))
		copy(values, trimAll(row))
		table.Rows = append(table.Rows, domain.NewRow(headers, values))
		table.Lines = append(table.Lines, lineNumber)
	}

	if len(table.Rows)+len(table.Skipped) == 0 {
		return nil, &FormatError{Message: "spreadsheet must contain headers and at least one data row"}
	}
	return table, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
