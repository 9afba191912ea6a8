package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gwilson152/TradePulse-new/internal/config"
	"github.com/gwilson152/TradePulse-new/internal/dataprocessing"
	apierrors "github.com/gwilson152/TradePulse-new/internal/errors"
	"github.com/gwilson152/TradePulse-new/internal/middleware"
	"github.com/gwilson152/TradePulse-new/internal/platforms"
	"github.com/gwilson152/TradePulse-new/internal/services"
	"github.com/gwilson152/TradePulse-new/internal/shared/testutil"
	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

// MockImportService is a mock implementation of ImportServiceInterface
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Platforms() []platforms.Info {
	args := m.Called()
	return args.Get(0).([]platforms.Info)
}

func (m *MockImportService) Platform(id string) (platforms.Info, bool) {
	args := m.Called(id)
	return args.Get(0).(platforms.Info), args.Bool(1)
}

func (m *MockImportService) Preview(ctx context.Context, req services.PreviewRequest) (*services.Preview, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Preview), args.Error(1)
}

func newImportRouter(t *testing.T, svc ImportServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	handler := NewImportHandler(svc, logger, errorHandler)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.MaxBodySize(1 << 10))
	r.Mount("/api/v1", handler.Routes(middleware.NewValidationMiddleware(logger, errorHandler)))
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func postPreview(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var dasInfo = platforms.Info{ID: "das-trader", Name: "DAS Trader Pro", RequiresDate: true, GroupExecutions: true}

func TestImportHandler_ListPlatforms(t *testing.T) {
	svc := new(MockImportService)
	svc.On("Platforms").Return([]platforms.Info{dasInfo})
	router := newImportRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/platforms", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var list PlatformList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, []platforms.Info{dasInfo}, list.Platforms)
	svc.AssertExpectations(t)
}

func TestImportHandler_GetPlatform(t *testing.T) {
	svc := new(MockImportService)
	svc.On("Platform", "das-trader").Return(dasInfo, true)
	svc.On("Platform", "ibkr").Return(platforms.Info{}, false)
	router := newImportRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/platforms/das-trader", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "das-trader", decode(t, rec)["id"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/platforms/ibkr", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apierrors.TypePlatformNotFound, body["type"])
	assert.Equal(t, "Unknown platform: ibkr", body["detail"])
	svc.AssertExpectations(t)
}

func TestImportHandler_Preview(t *testing.T) {
	exit := 151.5
	result := &domain.ImportResult{
		Success:  true,
		Platform: "das-trader",
		Trades: []domain.Trade{{
			Symbol:     "AAPL",
			TradeType:  domain.TradeTypeLong,
			EntryPrice: 150,
			ExitPrice:  &exit,
			Quantity:   100,
		}},
		Errors:     []domain.ImportError{},
		Warnings:   []domain.ImportWarning{},
		Statistics: domain.ImportStatistics{TotalRows: 2, ValidTrades: 1},
	}
	req := services.PreviewRequest{Platform: "das-trader", TradingDate: "2024-01-02", Content: "Symb,Side\n"}

	tests := []struct {
		name      string
		cached    bool
		wantCache string
	}{
		{name: "fresh import", wantCache: "MISS"},
		{name: "cached import", cached: true, wantCache: "HIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockImportService)
			svc.On("Preview", req).Return(&services.Preview{Fingerprint: "abc123", Cached: tt.cached, Result: result}, nil)
			router := newImportRouter(t, svc)

			rec := postPreview(t, router, `{"platform":"das-trader","trading_date":"2024-01-02","content":"Symb,Side\n"}`)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "abc123", rec.Header().Get(FingerprintHeader))
			assert.Equal(t, tt.wantCache, rec.Header().Get(CacheHeader))

			body := decode(t, rec)
			assert.Equal(t, true, body["success"])
			trades := body["trades"].([]interface{})
			require.Len(t, trades, 1)
			assert.Equal(t, "AAPL", trades[0].(map[string]interface{})["symbol"])
			svc.AssertExpectations(t)
		})
	}
}

func TestImportHandler_PreviewErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantType   string
	}{
		{
			name:       "invalid request",
			body:       `{"content":"x"}`,
			serviceErr: apierrors.NewAppValidationError("invalid import request", services.ErrInvalidInput).WithContext("errors", []apierrors.ValidationError{{Field: "platform", Message: "platform is required"}}),
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "unknown platform",
			body:       `{"platform":"ibkr","content":"x"}`,
			serviceErr: apierrors.NewNotFoundError("platform ibkr", fmt.Errorf("%w: ibkr", dataprocessing.ErrUnknownPlatform)),
			wantStatus: http.StatusNotFound,
			wantType:   apierrors.TypeNotFound,
		},
		{
			name:       "unusable export",
			body:       `{"platform":"das-trader","content":"Symb\n"}`,
			serviceErr: apierrors.NewParsingError("CSV file must contain headers and at least one data row", &dataprocessing.FormatError{Message: "CSV file must contain headers and at least one data row"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeImportFormat,
		},
		{
			name:       "deadline",
			body:       `{"platform":"das-trader","content":"x"}`,
			serviceErr: context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   apierrors.TypeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockImportService)
			svc.On("Preview", mock.Anything).Return(nil, tt.serviceErr)
			router := newImportRouter(t, svc)

			rec := postPreview(t, router, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.NotEmpty(t, body["trace_id"])
		})
	}
}

func TestImportHandler_PreviewRejectedBeforeService(t *testing.T) {
	svc := new(MockImportService)
	router := newImportRouter(t, svc)

	t.Run("malformed json", func(t *testing.T) {
		rec := postPreview(t, router, `{"platform":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_JSON", decode(t, rec)["error_code"])
	})

	t.Run("wrong field type", func(t *testing.T) {
		rec := postPreview(t, router, `{"platform":42}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_REQUEST", decode(t, rec)["error_code"])
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/preview", strings.NewReader("Symb,Side"))
		req.Header.Set("Content-Type", "text/csv")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		rec := postPreview(t, router, `{"content":"`+strings.Repeat("x", 2048)+`"}`)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, apierrors.TypePayloadTooLarge, decode(t, rec)["type"])
	})

	svc.AssertNotCalled(t, "Preview", mock.Anything)
}

func TestImportHandler_PreviewWithService(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	registry := platforms.NewDefaultRegistry()
	importer := dataprocessing.NewImporter(registry, dataprocessing.NewSequenceGenerator("t"), logger)
	svc, err := services.NewImportService(importer, registry, config.Default().Import, nil, logger)
	require.NoError(t, err)
	router := newImportRouter(t, svc)

	payload, err := json.Marshal(services.PreviewRequest{
		Platform:    "das-trader",
		TradingDate: "2024-01-02",
		Content:     "Symb,Side,Qty,Price,Time\nAAPL,B,100,150.00,09:31:05\nAAPL,S,100,151.50,09:45:00",
	})
	require.NoError(t, err)

	rec := postPreview(t, router, string(payload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	stats := body["statistics"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["valid_trades"])

	rec = postPreview(t, router, string(payload))
	assert.Equal(t, "HIT", rec.Header().Get(CacheHeader))

	rec = postPreview(t, router, `{"platform":"das-trader","trading_date":"2024/01/02","content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode(t, rec)
	errs := problem["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "trading_date", errs[0].(map[string]interface{})["field"])
}
