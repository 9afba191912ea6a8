package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gwilson152/TradePulse-new/internal/platforms"
	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

const tracerName = "tradepulse/dataprocessing"

// Options selects the platform for one import.
type Options struct {
	Platform string
	// TradingDate anchors time-of-day exports. Its location is used for
	// timestamps that carry no zone.
	TradingDate *time.Time
}

// Importer runs the parse, normalize, reconstruct and duplicate scan steps
// for one export at a time. It holds no per-import state.
type Importer struct {
	registry *platforms.Registry
	builder  *Builder
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewImporter creates an importer. A nil logger discards output.
func NewImporter(registry *platforms.Registry, ids IDGenerator, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Importer{
		registry: registry,
		builder:  NewBuilder(ids),
		logger:   logger.With(slog.String("component", "importer")),
		tracer:   otel.Tracer(tracerName),
	}
}

// Import parses CSV text and imports it.
func (im *Importer) Import(ctx context.Context, text string, opts Options) (*domain.ImportResult, error) {
	platform, err := im.resolve(opts.Platform)
	if err != nil {
		return nil, err
	}
	table, err := ParseCSV(text)
	if err != nil {
		return nil, err
	}
	return im.run(ctx, platform, table, opts)
}

// ImportTable imports an already parsed table.
func (im *Importer) ImportTable(ctx context.Context, table *domain.Table, opts Options) (*domain.ImportResult, error) {
	platform, err := im.resolve(opts.Platform)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, &FormatError{Message: "no table to import"}
	}
	return im.run(ctx, platform, table, opts)
}

func (im *Importer) resolve(id string) (*platforms.Platform, error) {
	p, ok := im.registry.Resolve(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, id)
	}
	return p, nil
}

func (im *Importer) run(ctx context.Context, platform *platforms.Platform, table *domain.Table, opts Options) (*domain.ImportResult, error) {
	ctx, span := im.tracer.Start(ctx, "dataprocessing.Import",
		trace.WithAttributes(
			attribute.String("import.platform", platform.ID),
			attribute.Int("import.rows", len(table.Rows)),
		),
	)
	defer span.End()

	start := time.Now()
	result := &domain.ImportResult{
		Platform: platform.ID,
		Trades:   []domain.Trade{},
		Errors:   []domain.ImportError{},
		Warnings: []domain.ImportWarning{},
	}

	executions := make([]domain.Execution, 0, len(table.Rows))
	filtered := 0
	for i, row := range table.Rows {
		if platform.Filter != nil && !platform.Filter(row) {
			filtered++
			continue
		}

		rowNumber := table.RowNumber(i)
		exec, err := Normalize(row, platform, opts.TradingDate, rowNumber)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				result.Errors = append(result.Errors, verr.ImportError())
			} else {
				result.Errors = append(result.Errors, domain.ImportError{Row: rowNumber, Message: err.Error()})
			}
			continue
		}
		executions = append(executions, *exec)
	}

	if platform.GroupExecutions {
		symbols, bySymbol := GroupBySymbol(executions)
		for _, symbol := range symbols {
			for _, pos := range ReconstructPositions(bySymbol[symbol]) {
				result.Trades = append(result.Trades, im.builder.FromPosition(pos))
			}
		}
	} else {
		for _, exec := range executions {
			result.Trades = append(result.Trades, im.builder.FromExecution(exec))
		}
	}

	duplicates := DetectDuplicates(result.Trades)
	result.Warnings = append(result.Warnings, duplicates...)

	result.Success = len(result.Errors) == 0
	result.Statistics = domain.ImportStatistics{
		TotalRows:    len(table.Rows),
		ValidTrades:  len(result.Trades),
		Duplicates:   len(duplicates),
		Errors:       len(result.Errors),
		Warnings:     len(result.Warnings),
		SkippedRows:  len(table.Skipped),
		FilteredRows: filtered,
	}

	if len(table.Skipped) > 0 {
		im.logger.DebugContext(ctx, "Dropped rows with mismatched field count",
			slog.Any("lines", table.Skipped))
	}

	span.SetAttributes(
		attribute.Int("import.trades", result.Statistics.ValidTrades),
		attribute.Int("import.errors", result.Statistics.Errors),
		attribute.Int("import.duplicates", result.Statistics.Duplicates),
	)
	if !result.Success {
		span.SetStatus(codes.Error, "rows failed validation")
	}

	im.logger.InfoContext(ctx, "Import completed",
		slog.String("platform", platform.ID),
		slog.Int("total_rows", result.Statistics.TotalRows),
		slog.Int("trades", result.Statistics.ValidTrades),
		slog.Int("errors", result.Statistics.Errors),
		slog.Int("duplicates", result.Statistics.Duplicates),
		slog.Int("skipped_rows", result.Statistics.SkippedRows),
		slog.Int("filtered_rows", result.Statistics.FilteredRows),
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}
