package testutil

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// DASTradeLog is a DAS Trader Pro export with one long round trip, one short
// round trip and a cancelled order that the row filter drops.
const DASTradeLog = `Time,Symb,Side,Price,Qty,Route,Type,Account,Event,Commission
09:31:05,AAPL,B,150.00,100,SMRT,Limit,TR1234,Execute,0.50
09:32:10,TSLA,SS,245.10,50,SMRT,Limit,TR1234,Cancel,0
09:40:00,TSLA,S,245.00,50,SMRT,Market,TR1234,Execute,0.25
09:45:00,AAPL,S,151.50,100,SMRT,Limit,TR1234,Execute,0.50
10:02:30,TSLA,B,244.00,50,SMRT,Market,TR1234,Execute,0.25
`

// PropReportsExport is a PropReports detailed export with two positions.
const PropReportsExport = `Date,Account,Symbol,Side,Qty,Price,Comm
2024-01-02 09:31:05,PR-77,AAPL,Long,100,150.00,1.00
2024-01-02 10:15:00,PR-77,"MSFT",Short,"1,000","$375.25",2.50
`

// TradingDate returns midnight of 2024-01-02 in UTC.
func TradingDate() time.Time {
	return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
}

// WorkbookBytes builds an xlsx workbook whose first sheet holds rows.
func WorkbookBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			t.Fatalf("failed to write row %d: %v", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}
	return bytes.Clone(buf.Bytes())
}

// WriteWorkbook saves a workbook built from rows under dir and returns its path.
func WriteWorkbook(t *testing.T, dir string, rows [][]string) string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(WorkbookBytes(t, rows)))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	path := filepath.Join(dir, fmt.Sprintf("export-%d.xlsx", len(rows)))
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}
