package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CurrencyBRL devise unique du jeu de données de ventes
const CurrencyBRL = "BRL"

// Money représente une valeur monétaire avec garanties d'invariants
type Money struct {
	amount   float64
	currency string
}

// NewMoney crée une nouvelle instance de Money avec validation
func NewMoney(amount float64, currency string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, errors.New("amount must be a finite number")
	}
	if amount < 0 {
		return Money{}, errors.New("amount cannot be negative")
	}
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewBRL raccourci pour un montant en reais
func NewBRL(amount float64) (Money, error) {
	return NewMoney(amount, CurrencyBRL)
}

// Amount retourne le montant
func (m Money) Amount() float64 {
	return m.amount
}

// Currency retourne la devise
func (m Money) Currency() string {
	return m.currency
}

// Add additionne deux Money (même devise requise)
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   m.amount + other.amount,
		currency: m.currency,
	}, nil
}

// Multiply multiplie le montant par un facteur
func (m Money) Multiply(factor float64) (Money, error) {
	if factor < 0 {
		return Money{}, errors.New("multiplication factor cannot be negative")
	}
	return Money{
		amount:   m.amount * factor,
		currency: m.currency,
	}, nil
}

// IsZero vérifie si le montant est zéro
func (m Money) IsZero() bool {
	return m.amount == 0
}

// FormatBRL formate un montant à la brésilienne: "R$ 1.234,56"
func FormatBRL(amount float64) string {
	neg := amount < 0
	raw := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
	intPart, decPart, _ := strings.Cut(raw, ".")

	var b strings.Builder
	b.Grow(len(raw) + 6)
	b.WriteString("R$ ")
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(decPart)
	return b.String()
}

// String retourne la représentation textuelle
func (m Money) String() string {
	if m.currency == CurrencyBRL {
		return FormatBRL(m.amount)
	}
	return fmt.Sprintf("%.2f %s", m.amount, m.currency)
}
