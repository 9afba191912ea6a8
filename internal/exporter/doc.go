// Package exporter writes imported trades as CSV.
//
// TradesToRecords flattens trades into rows matching TradeHeaders. Prices keep
// their full precision and money columns are fixed to two decimals.
// CSVWriter.WriteTrades writes those rows to a file with a UTF-8 BOM so
// spreadsheet applications detect the encoding.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(logger)
//	err := writer.WriteTrades("exports/2024-01-02.csv", result.Trades)
package exporter
