package dataprocessing

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwilson152/TradePulse-new/internal/platforms"
	"github.com/gwilson152/TradePulse-new/internal/shared/testutil"
	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

func newTestImporter(t *testing.T) (*Importer, *testutil.BufferedSlogHandler) {
	logger, handler := testutil.NewTestLogger(t)
	return NewImporter(platforms.NewDefaultRegistry(), NewSequenceGenerator("id"), logger), handler
}

func dasOptions() Options {
	return Options{Platform: "das-trader", TradingDate: tradingDate()}
}

func TestImportClosedLong(t *testing.T) {
	im, _ := newTestImporter(t)
	csv := "Symb,Side,Qty,Price,Time\nAAPL,B,100,150.00,09:31:05\nAAPL,S,100,151.50,09:45:00"

	result, err := im.Import(context.Background(), csv, dasOptions())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "das-trader", result.Platform)
	require.Len(t, result.Trades, 1)
	trade := result.Trades[0]
	assert.Equal(t, domain.TradeTypeLong, trade.TradeType)
	assert.Equal(t, 150.0, trade.EntryPrice)
	assert.Equal(t, 151.5, *trade.ExitPrice)
	assert.Equal(t, int64(100), trade.Quantity)
	assert.InDelta(t, 150.0, *trade.PnL, 1e-9)
	require.NotNil(t, trade.ClosedAt)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 45, 0, 0, time.UTC), *trade.ClosedAt)

	assert.Equal(t, domain.ImportStatistics{TotalRows: 2, ValidTrades: 1}, result.Statistics)
}

func TestImportClosedShort(t *testing.T) {
	im, _ := newTestImporter(t)
	csv := "Symb,Side,Qty,Price,Time\nTSLA,S,50,245.00,09:40:00\nTSLA,B,50,244.00,10:02:30"

	result, err := im.Import(context.Background(), csv, dasOptions())
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	trade := result.Trades[0]
	assert.Equal(t, domain.TradeTypeShort, trade.TradeType)
	assert.NotNil(t, trade.ClosedAt)
	assert.InDelta(t, 50.0, *trade.PnL, 1e-9)
	require.Len(t, trade.Entries, 1)
	assert.Equal(t, 245.0, trade.Entries[0].Price)
}

func TestImportRowErrorsAreCollected(t *testing.T) {
	im, _ := newTestImporter(t)
	csv := "Symb,Side,Qty,Price,Time\nAAPL,B,-5,150.00,09:31:05\nMSFT,B,10,375.00,09:35:00"

	result, err := im.Import(context.Background(), csv, dasOptions())
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "Qty", result.Errors[0].Column)
	assert.Equal(t, "Invalid quantity: -5", result.Errors[0].Message)
	require.NotNil(t, result.Errors[0].Data)
	assert.Equal(t, "AAPL", result.Errors[0].Data.Value("Symb"))

	require.Len(t, result.Trades, 1)
	assert.Equal(t, "MSFT", result.Trades[0].Symbol)
	assert.Equal(t, 1, result.Statistics.Errors)
	assert.Equal(t, 1, result.Statistics.ValidTrades)
}

func TestImportFlagsDuplicates(t *testing.T) {
	im, _ := newTestImporter(t)
	csv := "Date,Symbol,Side,Qty,Price\n" +
		"2024-01-02 09:31:05,AAPL,Long,100,150\n" +
		"2024-01-02 09:31:05,AAPL,Long,100,150\n"

	result, err := im.Import(context.Background(), csv, Options{Platform: "prop-reports"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Len(t, result.Trades, 2)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, domain.WarningDuplicate, result.Warnings[0].Type)
	assert.Equal(t, 3, result.Warnings[0].Row)
	assert.Equal(t, 1, result.Statistics.Duplicates)
	assert.Equal(t, 1, result.Statistics.Warnings)
}

func TestImportHeaderOnly(t *testing.T) {
	im, _ := newTestImporter(t)

	result, err := im.Import(context.Background(), "Symb,Side,Qty,Price,Time\n", dasOptions())
	assert.Nil(t, result)
	var ferr *FormatError
	assert.ErrorAs(t, err, &ferr)
}

func TestImportUnknownPlatform(t *testing.T) {
	im, _ := newTestImporter(t)

	result, err := im.Import(context.Background(), "", Options{Platform: "ibkr"})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestImportDASWithoutDate(t *testing.T) {
	im, _ := newTestImporter(t)
	csv := "Symb,Side,Qty,Price,Time\nAAPL,B,100,150.00,09:31:05\nAAPL,S,100,151.50,09:45:00"

	result, err := im.Import(context.Background(), csv, Options{Platform: "das-trader"})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Empty(t, result.Trades)
	require.Len(t, result.Errors, 2)
	for _, e := range result.Errors {
		assert.Equal(t, "Date is required for DAS Trader imports", e.Message)
	}
}

func TestImportDASTradeLog(t *testing.T) {
	im, handler := newTestImporter(t)

	result, err := im.Import(context.Background(), testutil.DASTradeLog, dasOptions())
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Trades, 2)

	aapl, tsla := result.Trades[0], result.Trades[1]
	assert.Equal(t, "AAPL", aapl.Symbol)
	assert.Equal(t, domain.TradeTypeLong, aapl.TradeType)
	assert.InDelta(t, 149.0, *aapl.PnL, 1e-9)
	assert.Equal(t, "TR1234", aapl.Account)

	assert.Equal(t, "TSLA", tsla.Symbol)
	assert.Equal(t, domain.TradeTypeShort, tsla.TradeType)
	assert.InDelta(t, 49.5, *tsla.PnL, 1e-9)
	assert.Equal(t, 4, tsla.SourceRow)

	assert.Equal(t, domain.ImportStatistics{TotalRows: 5, ValidTrades: 2, FilteredRows: 1}, result.Statistics)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Import completed")
	testutil.AssertLogAttr(t, handler, "filtered_rows", int64(1))
}

func TestImportDASStatusFilled(t *testing.T) {
	im, _ := newTestImporter(t)
	csv := "Symb,Side,Qty,Price,Time,Status\n" +
		"AAPL,B,100,150,09:31:05,Filled\n" +
		"AAPL,B,100,149,09:32:00,Rejected\n" +
		"AAPL,S,100,151.5,09:45:00,Filled"

	result, err := im.Import(context.Background(), csv, dasOptions())
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, 150.0, result.Trades[0].EntryPrice)
	assert.Equal(t, 151.5, *result.Trades[0].ExitPrice)
	assert.Equal(t, 1, result.Statistics.FilteredRows)
}

func TestImportSkippedRowsKeepLineNumbers(t *testing.T) {
	im, handler := newTestImporter(t)
	csv := "Symb,Side,Qty,Price,Time\n" +
		"AAPL,B,100,150.00,09:31:05,extra\n" +
		"AAPL,X,100,150.00,09:32:00\n"

	result, err := im.Import(context.Background(), csv, dasOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Statistics.SkippedRows)
	assert.Equal(t, 1, result.Statistics.TotalRows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	testutil.AssertLogContains(t, handler, slog.LevelDebug, "mismatched field count")
}

func TestImportTrailingOpenPosition(t *testing.T) {
	im, _ := newTestImporter(t)
	csv := "Symb,Side,Qty,Price,Time\n" +
		"AAPL,B,100,10,09:30\n" +
		"AAPL,S,100,11,09:31\n" +
		"AAPL,B,30,10.5,09:32\n"

	result, err := im.Import(context.Background(), csv, dasOptions())
	require.NoError(t, err)

	require.Len(t, result.Trades, 2)
	open := result.Trades[1]
	assert.Nil(t, open.ExitPrice)
	assert.Nil(t, open.ClosedAt)
	assert.Equal(t, int64(30), open.CurrentPositionSize)
}

func TestImportOrdersByTimestamp(t *testing.T) {
	im, _ := newTestImporter(t)
	csv := "Symb,Side,Qty,Price,Time\n" +
		"AAPL,S,100,11,09:45\n" +
		"AAPL,B,100,10,09:30\n"

	result, err := im.Import(context.Background(), csv, dasOptions())
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	assert.Equal(t, domain.TradeTypeLong, result.Trades[0].TradeType)
	assert.Equal(t, 3, result.Trades[0].SourceRow)
}

func TestImportPropReports(t *testing.T) {
	im, _ := newTestImporter(t)

	result, err := im.Import(context.Background(), testutil.PropReportsExport, Options{Platform: "prop-reports"})
	require.NoError(t, err)

	require.Len(t, result.Trades, 2)
	msft := result.Trades[1]
	assert.Equal(t, "MSFT", msft.Symbol)
	assert.Equal(t, domain.TradeTypeShort, msft.TradeType)
	assert.Equal(t, int64(1000), msft.Quantity)
	assert.Equal(t, 375.25, msft.EntryPrice)
	assert.Equal(t, 2.5, msft.Fees)
	assert.Equal(t, "PR-77", msft.Account)
	assert.Nil(t, msft.ClosedAt)
	assert.Equal(t, 3, msft.SourceRow)
}

func TestImportTableFromWorkbook(t *testing.T) {
	im, _ := newTestImporter(t)
	data := testutil.WorkbookBytes(t, [][]string{
		{"Date", "Symbol", "Side", "Qty", "Price"},
		{"2024-01-02 09:31:05", "AAPL", "Long", "100", "150"},
	})

	table, err := ParseXLSX(bytes.NewReader(data))
	require.NoError(t, err)

	result, err := im.ImportTable(context.Background(), table, Options{Platform: "prop-reports"})
	require.NoError(t, err)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, 2, result.Trades[0].SourceRow)
}

func TestImportEmptyCollectionsAreNotNil(t *testing.T) {
	im, _ := newTestImporter(t)
	csv := "Symb,Side,Qty,Price,Time\nAAPL,B,100,10,09:30"

	result, err := im.Import(context.Background(), csv, dasOptions())
	require.NoError(t, err)
	assert.NotNil(t, result.Errors)
	assert.NotNil(t, result.Warnings)
}
