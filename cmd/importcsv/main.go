// Command importcsv imports broker trade exports from the command line.
//
//	importcsv -platform das-trader -date 2024-01-02 trades.csv
//	importcsv -platform prop-reports -out trades.csv exports/
//	importcsv -platform prop-reports -out - exports/ > trades.csv
//
// Arguments may be .csv or .xlsx files or directories holding them. Files are
// imported concurrently and reported in argument order. With -out - the trades
// CSV goes to stdout and the summary moves to stderr.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gwilson152/TradePulse-new/internal/config"
	"github.com/gwilson152/TradePulse-new/internal/dataprocessing"
	"github.com/gwilson152/TradePulse-new/internal/exporter"
	"github.com/gwilson152/TradePulse-new/internal/infrastructure"
	"github.com/gwilson152/TradePulse-new/internal/platforms"
	"github.com/gwilson152/TradePulse-new/internal/services"
	"github.com/gwilson152/TradePulse-new/internal/validation"
	"github.com/gwilson152/TradePulse-new/pkg/contracts"
	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

const (
	exitOK       = 0
	exitFailures = 1
	exitUsage    = 2
)

// fileReport is the outcome of importing one file
type fileReport struct {
	File   string               `json:"file"`
	Format string               `json:"format,omitempty"`
	Error  string               `json:"error,omitempty"`
	Result *domain.ImportResult `json:"result,omitempty"`
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "warning: using default configuration: %v\n", err)
		cfg = config.Default()
	}

	fs := flag.NewFlagSet("importcsv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	platform := fs.String("platform", cfg.Import.DefaultPlatform, "platform id of the export")
	date := fs.String("date", "", "trading date (YYYY-MM-DD) for exports that only carry a time of day")
	out := fs.String("out", "", "write all imported trades to this CSV file, or - for stdout")
	asJSON := fs.Bool("json", false, "print full import results as JSON")
	list := fs.Bool("list", false, "list registered platforms and exit")
	level := fs.String("log-level", "warn", "log level: debug, info, warn, error")
	version := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	logger := infrastructure.NewLoggerWithWriter(stderr, *level).
		With(slog.String("component", "importcsv"))

	registry := platforms.NewDefaultRegistry()
	if cfg.Import.SchemaFile != "" {
		if _, err := registry.LoadFile(cfg.Import.SchemaFile); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
	}

	if *list {
		for _, info := range registry.List() {
			fmt.Fprintf(stdout, "%-16s %s\n", info.ID, info.Name)
		}
		return exitOK
	}

	toStdout := *out == "-"
	if toStdout && *asJSON {
		fmt.Fprintln(stderr, "error: -json and -out - both write to stdout")
		return exitUsage
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: importcsv [flags] FILE|DIR...")
		fs.PrintDefaults()
		return exitUsage
	}

	if _, ok := registry.Resolve(*platform); !ok {
		fmt.Fprintf(stderr, "error: unknown platform %q (see -list)\n", *platform)
		return exitUsage
	}

	cfg.Import.CacheTTL = 0
	importer := dataprocessing.NewImporter(registry, nil, logger)
	svc, err := services.NewImportService(importer, registry, cfg.Import, nil, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	tradingDate, err := validation.ParseTradingDate(*date, svc.Location())
	if err != nil {
		fmt.Fprintf(stderr, "error: -date: %v\n", err)
		return exitUsage
	}

	validator := validation.NewFileValidator(logger, cfg.Import.MaxUploadBytes)
	if *out != "" && !toStdout {
		if err := validator.ValidateOutputDirectory(filepath.Dir(*out)); err != nil {
			fmt.Fprintf(stderr, "error: -out: %v\n", err)
			return exitUsage
		}
	}

	files, err := expandArgs(validator, fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "error: no .csv or .xlsx files found")
		return exitUsage
	}

	reports, err := importAll(ctx, svc, validator, files, *platform, tradingDate)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailures
	}

	if *out != "" {
		var trades []domain.Trade
		for _, r := range reports {
			if r.Result != nil {
				trades = append(trades, r.Result.Trades...)
			}
		}
		writer := exporter.NewCSVWriter(logger)
		if toStdout {
			err = writer.WriteTradesTo(stdout, trades)
		} else {
			err = writer.WriteTrades(*out, trades)
		}
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailures
		}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailures
		}
	} else if toStdout {
		printSummary(stderr, reports)
	} else {
		printSummary(stdout, reports)
	}

	for _, r := range reports {
		if r.Error != "" || (r.Result != nil && len(r.Result.Errors) > 0) {
			return exitFailures
		}
	}
	return exitOK
}

// expandArgs replaces directory arguments with the import files they contain
func expandArgs(validator *validation.FileValidator, args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := validator.ImportFiles(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// importAll imports files concurrently. Per-file failures land in the report;
// only cancellation aborts the batch.
func importAll(ctx context.Context, svc *services.ImportService, validator *validation.FileValidator, files []string, platform string, tradingDate *time.Time) ([]fileReport, error) {
	reports := make([]fileReport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		g.Go(func() error {
			reports[i] = importFile(ctx, svc, validator, file, platform, tradingDate)
			if errors.Is(ctx.Err(), context.Canceled) {
				return ctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func importFile(ctx context.Context, svc *services.ImportService, validator *validation.FileValidator, file, platform string, tradingDate *time.Time) fileReport {
	report := fileReport{File: file}

	format, err := validator.ValidateImportFile(file)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Format = format

	data, err := os.ReadFile(file)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	result, err := svc.Import(ctx, services.ImportRequest{
		Platform:    platform,
		TradingDate: tradingDate,
		Format:      format,
		Data:        data,
	})
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Result = result
	return report
}

func printSummary(w io.Writer, reports []fileReport) {
	for _, r := range reports {
		if r.Error != "" {
			fmt.Fprintf(w, "%s: FAILED: %s\n", r.File, r.Error)
			continue
		}
		s := r.Result.Statistics
		fmt.Fprintf(w, "%s: %d rows, %d trades, %d errors, %d warnings, %d duplicates\n",
			r.File, s.TotalRows, s.ValidTrades, s.Errors, s.Warnings, s.Duplicates)
		for _, e := range r.Result.Errors {
			fmt.Fprintf(w, "  row %d: %s\n", e.Row, strings.TrimSpace(e.Message))
		}
		for _, warn := range r.Result.Warnings {
			fmt.Fprintf(w, "  row %d: warning: %s\n", warn.Row, warn.Message)
		}
	}
}
