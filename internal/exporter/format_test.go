package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero value", input: 0, expected: "0.00"},
		{name: "whole amount", input: 150, expected: "150.00"},
		{name: "negative amount", input: -49.5, expected: "-49.50"},
		{name: "rounds half up", input: 0.125, expected: "0.13"},
		{name: "binary float noise", input: 0.1 + 0.2, expected: "0.30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMoney(tt.input))
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "whole price", input: 150, expected: "150"},
		{name: "cents", input: 151.5, expected: "151.5"},
		{name: "sub-penny", input: 0.0001, expected: "0.0001"},
		{name: "many decimals", input: 245.1234, expected: "245.1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatPrice(tt.input))
		})
	}
}

func TestFormatOptionals(t *testing.T) {
	price := 151.5
	assert.Equal(t, "", formatOptionalPrice(nil))
	assert.Equal(t, "151.5", formatOptionalPrice(&price))
	assert.Equal(t, "", formatOptionalMoney(nil))
	assert.Equal(t, "151.50", formatOptionalMoney(&price))
}

func TestFormatScalars(t *testing.T) {
	assert.Equal(t, "-42", formatInt(-42))
	assert.Equal(t, "true", formatBool(true))
	assert.Equal(t, "false", formatBool(false))

	ny, err := time.LoadLocation("America/New_York")
	if assert.NoError(t, err) {
		ts := time.Date(2024, 1, 2, 9, 31, 5, 0, ny)
		assert.Equal(t, "2024-01-02T14:31:05Z", formatTime(&ts))
	}
	assert.Equal(t, "", formatTime(nil))
}
