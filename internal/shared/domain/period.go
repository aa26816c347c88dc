package domain

import (
	"fmt"
	"time"
)

// Granularity découpage temporel des séries de ventes
type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// ParseGranularity accepte "month"/"mes" et "quarter"/"trimestre"
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "month", "mes", "mensal":
		return GranularityMonth, nil
	case "quarter", "trimestre", "trimestral":
		return GranularityQuarter, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// Period représente un mois ou un trimestre calendaire
// DESIGN PATTERN: Value Object (DDD)
//   - Immutable, comparable avec ==
//   - ordinal = nombre de périodes depuis l'an 0, ce qui donne un index continu
//     utilisable directement comme abscisse de régression
type Period struct {
	ordinal     int
	granularity Granularity
}

// PeriodOf retourne la période contenant t
func PeriodOf(t time.Time, g Granularity) Period {
	month := int(t.Month()) - 1
	if g == GranularityQuarter {
		return Period{ordinal: t.Year()*4 + month/3, granularity: g}
	}
	return Period{ordinal: t.Year()*12 + month, granularity: GranularityMonth}
}

// Ordinal retourne l'index continu de la période
func (p Period) Ordinal() int {
	return p.ordinal
}

// Granularity retourne le découpage
func (p Period) Granularity() Granularity {
	return p.granularity
}

// Year retourne l'année calendaire
func (p Period) Year() int {
	return p.ordinal / p.perYear()
}

// Add décale la période de n pas
func (p Period) Add(n int) Period {
	return Period{ordinal: p.ordinal + n, granularity: p.granularity}
}

// Before ordonne deux périodes de même granularité
func (p Period) Before(other Period) bool {
	return p.ordinal < other.ordinal
}

// Start retourne le premier jour de la période
func (p Period) Start() time.Time {
	idx := p.ordinal % p.perYear()
	month := idx + 1
	if p.granularity == GranularityQuarter {
		month = idx*3 + 1
	}
	return time.Date(p.Year(), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// Label libellé court: "2023-04" pour un mois, "2023-T2" pour un trimestre
func (p Period) Label() string {
	idx := p.ordinal % p.perYear()
	if p.granularity == GranularityQuarter {
		return fmt.Sprintf("%d-T%d", p.Year(), idx+1)
	}
	return fmt.Sprintf("%d-%02d", p.Year(), idx+1)
}

// String implémente fmt.Stringer
func (p Period) String() string {
	return p.Label()
}

func (p Period) perYear() int {
	if p.granularity == GranularityQuarter {
		return 4
	}
	return 12
}
