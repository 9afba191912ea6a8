package infrastructure

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

// Import outcome labels
const (
	ImportStatusSuccess  = "success"
	ImportStatusRowError = "row_errors"
	ImportStatusFailed   = "failed"
)

// ImportMetrics holds the counters recorded for every import
type ImportMetrics struct {
	ImportsTotal    metric.Int64Counter
	RowsTotal       metric.Int64Counter
	TradesTotal     metric.Int64Counter
	RowErrorsTotal  metric.Int64Counter
	DuplicatesTotal metric.Int64Counter
	Duration        metric.Float64Histogram
	CacheLookups    metric.Int64Counter
}

// NewImportMetrics registers the import instruments on meter.
func NewImportMetrics(meter metric.Meter) (*ImportMetrics, error) {
	m := &ImportMetrics{}
	var err error

	if m.ImportsTotal, err = meter.Int64Counter(
		"imports_total",
		metric.WithDescription("Total number of import requests by platform and outcome"),
	); err != nil {
		return nil, err
	}

	if m.RowsTotal, err = meter.Int64Counter(
		"import_rows_total",
		metric.WithDescription("Data rows read from imported files"),
	); err != nil {
		return nil, err
	}

	if m.TradesTotal, err = meter.Int64Counter(
		"import_trades_total",
		metric.WithDescription("Trades produced by imports"),
	); err != nil {
		return nil, err
	}

	if m.RowErrorsTotal, err = meter.Int64Counter(
		"import_row_errors_total",
		metric.WithDescription("Rows rejected during normalization"),
	); err != nil {
		return nil, err
	}

	if m.DuplicatesTotal, err = meter.Int64Counter(
		"import_duplicates_total",
		metric.WithDescription("Trades flagged as possible duplicates"),
	); err != nil {
		return nil, err
	}

	if m.Duration, err = meter.Float64Histogram(
		"import_duration_seconds",
		metric.WithDescription("Import processing time in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.CacheLookups, err = meter.Int64Counter(
		"import_cache_lookups_total",
		metric.WithDescription("Preview cache lookups by result"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordImport records the outcome of one import. A nil result counts as failed.
func (m *ImportMetrics) RecordImport(ctx context.Context, platform string, result *domain.ImportResult, duration time.Duration) {
	if m == nil {
		return
	}

	status := ImportStatusFailed
	if result != nil {
		status = ImportStatusSuccess
		if !result.Success {
			status = ImportStatusRowError
		}
	}

	platformAttr := metric.WithAttributes(attribute.String("platform", platform))
	m.ImportsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("platform", platform),
		attribute.String("status", status),
	))
	m.Duration.Record(ctx, duration.Seconds(), platformAttr)

	if result == nil {
		return
	}

	stats := result.Statistics
	m.RowsTotal.Add(ctx, int64(stats.TotalRows), platformAttr)
	m.TradesTotal.Add(ctx, int64(stats.ValidTrades), platformAttr)
	m.RowErrorsTotal.Add(ctx, int64(stats.Errors), platformAttr)
	m.DuplicatesTotal.Add(ctx, int64(stats.Duplicates), platformAttr)
}

// RecordCacheLookup counts a preview cache hit or miss.
func (m *ImportMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// HTTPMetrics holds request instruments for the HTTP transport
type HTTPMetrics struct {
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ActiveRequests  metric.Int64UpDownCounter
}

// NewHTTPMetrics registers the HTTP instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		RequestsTotal:   requestsTotal,
		RequestDuration: requestDuration,
		ActiveRequests:  activeRequests,
	}, nil
}

// RecordRequest records a completed request against its route pattern.
func (m *HTTPMetrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.String("http.status_code", strconv.Itoa(status)),
	)
	m.RequestsTotal.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, duration.Seconds(), attrs)
}
