package platforms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

func TestParseDASSide(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.Side
		wantErr bool
	}{
		{"B", domain.SideBuy, false},
		{"buy", domain.SideBuy, false},
		{" BOT ", domain.SideBuy, false},
		{"Bought", domain.SideBuy, true},
		{"S", domain.SideSell, false},
		{"sell", domain.SideSell, false},
		{"SOLD", domain.SideSell, false},
		{"SS", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDASSide(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDirectionSide(t *testing.T) {
	for _, v := range []string{"LONG", "long", "BUY", "b"} {
		got, err := parseDirectionSide(v)
		require.NoError(t, err, v)
		assert.Equal(t, domain.SideBuy, got, v)
	}
	for _, v := range []string{"SHORT", "Sell", "s"} {
		got, err := parseDirectionSide(v)
		require.NoError(t, err, v)
		assert.Equal(t, domain.SideSell, got, v)
	}
	_, err := parseDirectionSide("BOT")
	assert.EqualError(t, err, "Invalid side value: BOT")
}

func TestParseTimeOfDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, ny)

	t.Run("hours minutes seconds", func(t *testing.T) {
		ts, err := parseTimeOfDay("09:31:05", &date)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 2, 9, 31, 5, 0, ny), ts)
	})

	t.Run("fractional seconds", func(t *testing.T) {
		ts, err := parseTimeOfDay("15:59:59.250", &date)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 2, 15, 59, 59, 250*int(time.Millisecond), ny), ts)
	})

	t.Run("hours minutes only", func(t *testing.T) {
		ts, err := parseTimeOfDay("10:05", &date)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 2, 10, 5, 0, 0, ny), ts)
	})

	t.Run("missing date", func(t *testing.T) {
		_, err := parseTimeOfDay("09:31:05", nil)
		assert.ErrorIs(t, err, ErrDateRequired)
		assert.Equal(t, "Date is required for DAS Trader imports", err.Error())
	})

	t.Run("malformed", func(t *testing.T) {
		for _, v := range []string{"0931", "25:00:00", "09:61", "aa:bb", "09:30:75"} {
			_, err := parseTimeOfDay(v, &date)
			assert.Error(t, err, v)
		}
	})
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-02T09:31:05Z", time.Date(2024, 1, 2, 9, 31, 5, 0, time.UTC)},
		{"2024-01-02 09:31:05", time.Date(2024, 1, 2, 9, 31, 5, 0, time.UTC)},
		{"01/02/2024 09:31", time.Date(2024, 1, 2, 9, 31, 0, 0, time.UTC)},
		{"1/2/2024 1:15:00 PM", time.Date(2024, 1, 2, 13, 15, 0, 0, time.UTC)},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"Jan 2, 2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDateTime(tt.input, nil)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := parseDateTime("yesterday", nil)
	assert.EqualError(t, err, "Invalid timestamp: yesterday")
}

func TestParseDateTimeUsesDateLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, ny)

	got, err := parseDateTime("2024-01-02 09:30:00", &date)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T14:30:00Z", got.UTC().Format(time.RFC3339))
}

func TestParseCurrency(t *testing.T) {
	price, err := parseCurrency("$1,234.50")
	require.NoError(t, err)
	assert.Equal(t, 1234.5, price)

	price, err = parseCurrency("-0.25")
	require.NoError(t, err)
	assert.Equal(t, -0.25, price)

	for _, v := range []string{"", "abc", "NaN", "Inf"} {
		_, err := parseCurrency(v)
		assert.Error(t, err, v)
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"100", 100, false},
		{"1,000", 1000, false},
		{"100.0", 100, false},
		{"75 shares", 75, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseQuantity(tt.input)
			if tt.wantErr {
				assert.EqualError(t, err, "Invalid quantity: "+tt.input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFees(t *testing.T) {
	assert.Equal(t, 1.25, parseFees("1.25"))
	assert.Equal(t, 1.25, parseFees("-$1.25"))
	assert.Equal(t, 0.0, parseFees("n/a"))
	assert.Equal(t, 0.0, parseFees(""))
}

func TestSkipNonFills(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		values  []string
		want    bool
	}{
		{"no event column", []string{"Symb", "Side"}, []string{"AAPL", "B"}, true},
		{"executed event", []string{"Symb", "Event"}, []string{"AAPL", "Execute"}, true},
		{"executed status", []string{"Symb", "status"}, []string{"AAPL", "executed"}, true},
		{"filled status", []string{"Symb", "Status"}, []string{"AAPL", "Filled"}, true},
		{"partial fill", []string{"Symb", "Status"}, []string{"AAPL", "Partial"}, true},
		{"empty event", []string{"Symb", "Event"}, []string{"AAPL", ""}, true},
		{"cancelled", []string{"Symb", "Event"}, []string{"AAPL", "Cancel"}, false},
		{"accepted status", []string{"Symb", "Status"}, []string{"AAPL", "Accepted"}, false},
		{"rejected", []string{"Symb", "Event"}, []string{"AAPL", " REJECT "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, skipNonFills(domain.NewRow(tt.headers, tt.values)))
		})
	}
}
