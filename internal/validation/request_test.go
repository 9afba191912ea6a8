package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/gwilson152/TradePulse-new/internal/errors"
)

type previewInput struct {
	Platform    string `json:"platform" validate:"required"`
	TradingDate string `json:"trading_date,omitempty" validate:"omitempty,tradingdate"`
	Format      string `json:"format" validate:"omitempty,oneof=csv xlsx"`
	Content     string `json:"content" validate:"required"`
	Internal    string `json:"-" validate:"max=3"`
}

func TestValidator_Struct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		input previewInput
		want  []apierrors.ValidationError
	}{
		{
			name:  "valid",
			input: previewInput{Platform: "das-trader", TradingDate: "2024-01-02", Format: "csv", Content: "a,b"},
		},
		{
			name:  "optional fields empty",
			input: previewInput{Platform: "das-trader", Content: "a,b"},
		},
		{
			name:  "missing required",
			input: previewInput{},
			want: []apierrors.ValidationError{
				{Field: "platform", Message: "platform is required"},
				{Field: "content", Message: "content is required"},
			},
		},
		{
			name:  "bad date and format",
			input: previewInput{Platform: "p", TradingDate: "01/02/2024", Format: "json", Content: "x"},
			want: []apierrors.ValidationError{
				{Field: "trading_date", Message: "trading_date must be a date in YYYY-MM-DD format"},
				{Field: "format", Message: "format must be one of: csv, xlsx"},
			},
		},
		{
			name:  "impossible calendar date",
			input: previewInput{Platform: "p", TradingDate: "2024-02-30", Content: "x"},
			want: []apierrors.ValidationError{
				{Field: "trading_date", Message: "trading_date must be a date in YYYY-MM-DD format"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Struct(tt.input)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidator_StructRejectsNonStruct(t *testing.T) {
	_, err := NewValidator().Struct("not a struct")
	assert.Error(t, err)
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(previewInput{Platform: "p", Content: "x"}))

	err := v.Validate(previewInput{Content: "x"})
	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)
	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, []apierrors.ValidationError{{Field: "platform", Message: "platform is required"}}, details.Errors)
}

func TestParseTradingDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, err := ParseTradingDate("2024-01-02", ny)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, ny)))
	assert.Equal(t, ny, got.Location())

	got, err = ParseTradingDate("", ny)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseTradingDate("2024-01-02", nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())

	_, err = ParseTradingDate("Jan 2 2024", ny)
	assert.ErrorContains(t, err, "expected YYYY-MM-DD")
}
