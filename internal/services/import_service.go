package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/blake2b"

	"github.com/gwilson152/TradePulse-new/internal/config"
	"github.com/gwilson152/TradePulse-new/internal/dataprocessing"
	apierrors "github.com/gwilson152/TradePulse-new/internal/errors"
	"github.com/gwilson152/TradePulse-new/internal/infrastructure"
	"github.com/gwilson152/TradePulse-new/internal/platforms"
	"github.com/gwilson152/TradePulse-new/internal/validation"
	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

// PreviewRequest is the body of an import preview
type PreviewRequest struct {
	Platform    string `json:"platform" validate:"required,max=64"`
	TradingDate string `json:"trading_date,omitempty" validate:"omitempty,tradingdate"`
	// Format is csv (default) or xlsx. xlsx content is base64 encoded.
	Format  string `json:"format,omitempty" validate:"omitempty,oneof=csv xlsx"`
	Content string `json:"content" validate:"required"`
}

// Preview is an import result with the fingerprint it is cached under
type Preview struct {
	Fingerprint string
	Cached      bool
	Result      *domain.ImportResult
}

// ImportRequest is one raw import. It is not cached.
type ImportRequest struct {
	Platform    string
	TradingDate *time.Time
	Format      string
	Data        []byte
}

// ImportService wraps the importer with validation, caching and metrics
type ImportService struct {
	importer  *dataprocessing.Importer
	registry  *platforms.Registry
	validator *validation.Validator
	cache     *cache.Cache
	metrics   *infrastructure.ImportMetrics
	location  *time.Location
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewImportService creates the service. A zero CacheTTL disables preview caching
// and a nil metrics value disables instrumentation.
func NewImportService(importer *dataprocessing.Importer, registry *platforms.Registry, cfg config.ImportConfig, metrics *infrastructure.ImportMetrics, logger *slog.Logger) (*ImportService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, apierrors.NewConfigError(fmt.Sprintf("invalid import timezone %q", cfg.Timezone), err)
	}

	s := &ImportService{
		importer:  importer,
		registry:  registry,
		validator: validation.NewValidator(),
		metrics:   metrics,
		location:  loc,
		tracer:    otel.Tracer(infrastructure.MeterName),
		logger:    logger.With(slog.String("component", "import_service")),
	}
	if cfg.CacheTTL > 0 {
		s.cache = cache.New(cfg.CacheTTL, cfg.CacheCleanup)
	}

	s.logger.Info("ImportService initialized",
		slog.Int("platforms", len(registry.List())),
		slog.Duration("cache_ttl", cfg.CacheTTL),
		slog.String("timezone", loc.String()))

	return s, nil
}

// Platforms lists the registered platforms
func (s *ImportService) Platforms() []platforms.Info {
	return s.registry.List()
}

// Platform describes one registered platform
func (s *ImportService) Platform(id string) (platforms.Info, bool) {
	p, ok := s.registry.Resolve(id)
	if !ok {
		return platforms.Info{}, false
	}
	return p.Info(), true
}

// Location is the zone trading dates are interpreted in
func (s *ImportService) Location() *time.Location {
	return s.location
}

// Preview validates and imports a request, serving repeats from the cache
func (s *ImportService) Preview(ctx context.Context, req PreviewRequest) (*Preview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fieldErrs, err := s.validator.Struct(req)
	if err != nil {
		return nil, fmt.Errorf("validate preview request: %w", err)
	}
	if len(fieldErrs) > 0 {
		return nil, invalidInput(fieldErrs)
	}

	date, err := validation.ParseTradingDate(req.TradingDate, s.location)
	if err != nil {
		return nil, invalidInput([]apierrors.ValidationError{{Field: "trading_date", Message: err.Error()}})
	}

	format := req.Format
	if format == "" {
		format = validation.FormatCSV
	}

	data := []byte(req.Content)
	if format == validation.FormatXLSX {
		if data, err = base64.StdEncoding.DecodeString(req.Content); err != nil {
			return nil, invalidInput([]apierrors.ValidationError{{Field: "content", Message: "content must be base64 encoded"}})
		}
	}

	fingerprint := Fingerprint(req.Platform, req.TradingDate, format, data)

	if s.cache != nil {
		cached, found := s.cache.Get(fingerprint)
		s.metrics.RecordCacheLookup(ctx, found)
		if found {
			s.logger.DebugContext(ctx, "Preview served from cache",
				slog.String("platform", req.Platform),
				slog.String("fingerprint", fingerprint))
			return &Preview{Fingerprint: fingerprint, Cached: true, Result: cached.(*domain.ImportResult)}, nil
		}
	}

	result, err := s.Import(ctx, ImportRequest{
		Platform:    req.Platform,
		TradingDate: date,
		Format:      format,
		Data:        data,
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(fingerprint, result, cache.DefaultExpiration)
	}
	return &Preview{Fingerprint: fingerprint, Result: result}, nil
}

// Import runs one import and records its metrics. Pipeline failures are
// returned as *errors.AppError wrapping the original error.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*domain.ImportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "ImportService.Import",
		trace.WithAttributes(
			attribute.String("import.platform", req.Platform),
			attribute.String("import.format", req.Format),
			attribute.Int("import.bytes", len(req.Data)),
		),
	)
	defer span.End()

	opts := dataprocessing.Options{Platform: req.Platform, TradingDate: req.TradingDate}

	start := time.Now()
	var result *domain.ImportResult
	var err error
	switch req.Format {
	case validation.FormatXLSX:
		var table *domain.Table
		if table, err = dataprocessing.ParseXLSX(bytes.NewReader(req.Data)); err == nil {
			result, err = s.importer.ImportTable(ctx, table, opts)
		}
	case validation.FormatCSV, "":
		result, err = s.importer.Import(ctx, string(req.Data), opts)
	default:
		return nil, invalidInput([]apierrors.ValidationError{{Field: "format", Message: "format must be one of: csv, xlsx"}})
	}
	s.metrics.RecordImport(ctx, req.Platform, result, time.Since(start))

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "Import failed",
			slog.String("platform", req.Platform),
			slog.String("format", req.Format),
			slog.String("error", err.Error()))
		return nil, translateImportError(err, req.Platform)
	}
	return result, nil
}

// Fingerprint identifies an import request by its inputs
func Fingerprint(platform, tradingDate, format string, data []byte) string {
	h, _ := blake2b.New256(nil)
	for _, field := range []string{platform, tradingDate, format} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func invalidInput(fieldErrs []apierrors.ValidationError) error {
	return apierrors.NewAppValidationError("invalid import request", ErrInvalidInput).
		WithContext("errors", fieldErrs)
}

func translateImportError(err error, platform string) error {
	var formatErr *dataprocessing.FormatError
	switch {
	case errors.As(err, &formatErr):
		return apierrors.NewParsingError(formatErr.Message, err)
	case errors.Is(err, dataprocessing.ErrUnknownPlatform):
		return apierrors.NewNotFoundError("platform "+platform, err)
	default:
		return err
	}
}
