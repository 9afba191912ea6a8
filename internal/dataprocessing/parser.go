package dataprocessing

import (
	"strings"

	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

// ParseCSV splits comma-separated export text into a table. The first line is
// the header. Lines whose field count differs from the header are dropped and
// recorded in Table.Skipped.
func ParseCSV(text string) (*domain.Table, error) {
	lines := splitLines(strings.TrimSpace(text))
	if len(lines) < 2 {
		return nil, &FormatError{Message: "CSV file must contain headers and at least one data row"}
	}

	headers := splitFields(lines[0])
	table := &domain.Table{
		Headers: headers,
		Rows:    make([]domain.Row, 0, len(lines)-1),
		Lines:   make([]int, 0, len(lines)-1),
	}

	for i := 1; i < len(lines); i++ {
		lineNumber := i + 1
		values := splitFields(lines[i])
		if len(values) != len(headers) {
			table.Skipped = append(table.Skipped, lineNumber)
			continue
		}
		table.Rows = append(table.Rows, domain.NewRow(headers, values))
		table.Lines = append(table.Lines, lineNumber)
	}

	return table, nil
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// splitFields splits one line on commas outside double quotes. Quote
// characters only toggle quoting and never reach the field value, so an
// escaped "" contributes nothing.
func splitFields(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}
