package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"10", 10, true},
		{"10.5", 10.5, true},
		{"10,5", 10.5, true},
		{"R$ 1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"1.234.567", 1234567, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"1,2,3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseNumber(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	id, ok := parseID("7.0")
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = parseID("0")
	assert.False(t, ok)
	_, ok = parseID("-3")
	assert.False(t, ok)
	_, ok = parseID("2.5")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2023-03-15", "15/03/2023", "2023-03-15 10:22:00", "03-15-23", "45000"} {
		got, ok := parseDate(raw)
		assert.True(t, ok, raw)
		if raw == "45000" {
			// 45000 = 2023-03-15 dans le calendrier Excel 1900
			assert.Equal(t, want, got)
			continue
		}
		assert.Equal(t, want, got, raw)
	}

	_, ok := parseDate("ontem")
	assert.False(t, ok)
}
