package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodOf(t *testing.T) {
	tests := []struct {
		name  string
		date  time.Time
		g     Granularity
		label string
	}{
		{"january month", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), GranularityMonth, "2023-01"},
		{"december month", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), GranularityMonth, "2023-12"},
		{"first quarter", time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), GranularityQuarter, "2023-T1"},
		{"last quarter", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), GranularityQuarter, "2024-T4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.label, PeriodOf(tt.date, tt.g).Label())
		})
	}
}

func TestPeriod_AddCrossesYear(t *testing.T) {
	dec := PeriodOf(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), GranularityMonth)
	assert.Equal(t, "2024-02", dec.Add(2).Label())
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), dec.Add(2).Start())

	q4 := PeriodOf(time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), GranularityQuarter)
	assert.Equal(t, "2024-T1", q4.Add(1).Label())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), q4.Add(1).Start())
	assert.True(t, q4.Before(q4.Add(1)))
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("trimestre")
	assert.NoError(t, err)
	assert.Equal(t, GranularityQuarter, g)

	_, err = ParseGranularity("semana")
	assert.Error(t, err)
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 50,00", FormatBRL(50))
	assert.Equal(t, "R$ 1.234,56", FormatBRL(1234.56))
	assert.Equal(t, "R$ 1.000.000,00", FormatBRL(1e6))
	assert.Equal(t, "R$ -12,50", FormatBRL(-12.5))
}

func TestNewMoney_RejectsInvalid(t *testing.T) {
	_, err := NewBRL(-1)
	assert.Error(t, err)

	m, err := NewBRL(10)
	assert.NoError(t, err)
	sum, err := m.Add(m)
	assert.NoError(t, err)
	assert.Equal(t, 20.0, sum.Amount())
	assert.Equal(t, "R$ 20,00", sum.String())
}
