// Package dataprocessing turns broker and prop-firm trade exports into
// canonical trades. It consolidates parsing, normalization, position
// reconstruction and duplicate detection behind a single Importer.
//
// # Architecture
//
// The package is organized into these steps:
//
// 1. Parser: splits CSV text (or the first sheet of a workbook) into a Table
// 2. Normalizer: maps each row onto an Execution using a platform schema
// 3. Reconstructor: groups a symbol's fills into round-trip positions
// 4. Builder: converts positions or single executions into Trades
// 5. Duplicate detector: flags trades that repeat an earlier one
//
// # Usage
//
//	importer := dataprocessing.NewImporter(platforms.NewDefaultRegistry(), nil, logger)
//	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)
//	result, err := importer.Import(ctx, text, dataprocessing.Options{
//	    Platform:    "das-trader",
//	    TradingDate: &date,
//	})
//
// # Data Flow
//
//	Text → Parser → Rows → Row filter → Normalizer → Executions
//	     → (Reconstructor) → Builder → Trades → Duplicate scan → ImportResult
//
// # Error Handling
//
// A FormatError means the input has no usable structure and no result is
// returned. Rows that fail normalization become ImportErrors in the result
// and the import carries on. Rows whose field count differs from the header
// are dropped and counted in the statistics.
package dataprocessing
