package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TradeHeaders are the columns written for each trade
var TradeHeaders = []string{
	"symbol",
	"trade_type",
	"quantity",
	"entry_price",
	"exit_price",
	"fees",
	"pnl",
	"realized_pnl",
	"opened_at",
	"closed_at",
	"closed",
	"entries",
	"exits",
	"account",
	"source_row",
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// TradesToRecords converts trades into CSV rows matching TradeHeaders
func TradesToRecords(trades []domain.Trade) [][]string {
	records := make([][]string, 0, len(trades))
	for _, t := range trades {
		sourceRow := ""
		if t.SourceRow > 0 {
			sourceRow = formatInt(int64(t.SourceRow))
		}
		opened := t.OpenedAt
		records = append(records, []string{
			t.Symbol,
			string(t.TradeType),
			formatInt(t.Quantity),
			formatPrice(t.EntryPrice),
			formatOptionalPrice(t.ExitPrice),
			formatMoney(t.Fees),
			formatOptionalMoney(t.PnL),
			formatMoney(t.RealizedPnL),
			formatTime(&opened),
			formatTime(t.ClosedAt),
			formatBool(t.IsClosed()),
			formatInt(int64(len(t.Entries))),
			formatInt(int64(len(t.Exits))),
			t.Account,
			sourceRow,
		})
	}
	return records
}

// WriteTrades writes trades to a CSV file with a UTF-8 BOM, replacing any existing file
func (w *CSVWriter) WriteTrades(filePath string, trades []domain.Trade) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   TradeHeaders,
		Records:   TradesToRecords(trades),
		BOMPrefix: true,
	})
}

// WriteTradesTo writes trades as CSV to out without a BOM
func (w *CSVWriter) WriteTradesTo(out io.Writer, trades []domain.Trade) error {
	return writeRecords(out, WriteOptions{
		Headers: TradeHeaders,
		Records: TradesToRecords(trades),
	})
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if err := writeRecords(file, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeRecords(out io.Writer, options WriteOptions) error {
	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
