package domain

import (
	"errors"
	"time"

	catalogdomain "chatvendas/internal/catalog/domain"
	"chatvendas/internal/shared/domain"
)

// SaleID représente l'identifiant unique d'une vente
type SaleID int64

// Metric mesure agrégée par les analyses
type Metric string

const (
	MetricValue    Metric = "value"
	MetricQuantity Metric = "quantity"
)

// Sale représente une ligne de vente nettoyée
// Le total est conservé tel que fourni par la source, il n'est pas recalculé
type Sale struct {
	id         SaleID
	productID  catalogdomain.ProductID
	vendorID   catalogdomain.VendorID
	quantity   domain.Quantity
	unitPrice  domain.Money
	totalValue domain.Money
	date       time.Time
}

// NewSale crée une vente avec validation des invariants de ligne
// Une date zéro signifie "date inconnue"
func NewSale(
	id SaleID,
	productID catalogdomain.ProductID,
	vendorID catalogdomain.VendorID,
	quantity domain.Quantity,
	unitPrice domain.Money,
	totalValue domain.Money,
	date time.Time,
) (*Sale, error) {
	if id <= 0 {
		return nil, errors.New("invalid sale ID")
	}
	if productID <= 0 {
		return nil, errors.New("invalid product ID")
	}
	if vendorID <= 0 {
		return nil, errors.New("invalid vendor ID")
	}
	if !quantity.IsPositive() {
		return nil, errors.New("quantity must be positive")
	}
	if unitPrice.IsZero() {
		return nil, errors.New("unit price must be positive")
	}

	return &Sale{
		id:         id,
		productID:  productID,
		vendorID:   vendorID,
		quantity:   quantity,
		unitPrice:  unitPrice,
		totalValue: totalValue,
		date:       date,
	}, nil
}

// ID retourne l'identifiant de la vente
func (s *Sale) ID() SaleID {
	return s.id
}

// ProductID retourne le produit vendu
func (s *Sale) ProductID() catalogdomain.ProductID {
	return s.productID
}

// VendorID retourne le vendeur
func (s *Sale) VendorID() catalogdomain.VendorID {
	return s.vendorID
}

// Quantity retourne la quantité vendue
func (s *Sale) Quantity() domain.Quantity {
	return s.quantity
}

// UnitPrice retourne le prix unitaire pratiqué
func (s *Sale) UnitPrice() domain.Money {
	return s.unitPrice
}

// TotalValue retourne le montant total enregistré
func (s *Sale) TotalValue() domain.Money {
	return s.totalValue
}

// Date retourne la date de vente (zéro si inconnue)
func (s *Sale) Date() time.Time {
	return s.date
}

// HasDate indique si la vente peut entrer dans une série temporelle
func (s *Sale) HasDate() bool {
	return !s.date.IsZero()
}

// Measure retourne la valeur de la vente pour la métrique demandée
func (s *Sale) Measure(m Metric) float64 {
	if m == MetricQuantity {
		return float64(s.quantity.Value())
	}
	return s.totalValue.Amount()
}
