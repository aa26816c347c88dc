package domain

import (
	"errors"

	catalogdomain "chatvendas/internal/catalog/domain"
	salesdomain "chatvendas/internal/sales/domain"
	"chatvendas/internal/shared/domain"
)

// ErrNotFound aucun enregistrement ne correspond à la demande
var ErrNotFound = errors.New("not found")

// Scope sujet d'un total: produit, vendeur ou vente
type Scope string

const (
	ScopeProduct Scope = "product"
	ScopeVendor  Scope = "vendor"
	ScopeSale    Scope = "sale"
)

// EntityTotal total des ventes d'un enregistrement
type EntityTotal struct {
	Scope    Scope   `json:"entidade"`
	ID       int64   `json:"id"`
	Name     string  `json:"nome"`
	Sales    int     `json:"vendas"`
	Quantity int     `json:"quantidade"`
	Value    float64 `json:"valor_total"`
}

// RegionTotal cumul des ventes d'une région
type RegionTotal struct {
	Region   string  `json:"regiao"`
	Sales    int     `json:"vendas"`
	Quantity int     `json:"quantidade"`
	Value    float64 `json:"valor_total"`
}

// ProductTotal cumul des ventes d'un produit
type ProductTotal struct {
	ProductID catalogdomain.ProductID `json:"id_produto"`
	Name      string                  `json:"nome"`
	Category  string                  `json:"categoria"`
	Quantity  int                     `json:"quantidade"`
	Value     float64                 `json:"valor_total"`
}

// Measure retourne la valeur du cumul pour la métrique demandée
func (p ProductTotal) Measure(m salesdomain.Metric) float64 {
	if m == salesdomain.MetricQuantity {
		return float64(p.Quantity)
	}
	return p.Value
}

// VendorTotal cumul des ventes d'un vendeur
type VendorTotal struct {
	VendorID catalogdomain.VendorID `json:"id_vendedor"`
	Name     string                 `json:"nome"`
	Region   string                 `json:"regiao"`
	Quantity int                    `json:"quantidade"`
	Value    float64                `json:"valor_total"`
}

// VendorGrowth potentiel de croissance d'un vendeur
// Growth = moyenne des variations mensuelles, arrondie à 4 décimales
type VendorGrowth struct {
	VendorID catalogdomain.VendorID `json:"id_vendedor"`
	Name     string                 `json:"nome"`
	Region   string                 `json:"regiao"`
	Growth   float64                `json:"crescimento"`
	Metric   salesdomain.Metric     `json:"metrica"`
}

// SeriesPoint valeur agrégée sur une période
type SeriesPoint struct {
	Period domain.Period `json:"-"`
	Label  string        `json:"periodo"`
	Value  float64       `json:"valor"`
}

// NewSeriesPoint crée un point libellé d'après sa période
func NewSeriesPoint(p domain.Period, v float64) SeriesPoint {
	return SeriesPoint{Period: p, Label: p.Label(), Value: v}
}

// Forecast prévision par tendance linéaire (moindres carrés)
//
// History couvre toutes les périodes entre la première et la dernière vente
// datée du produit (périodes vides à zéro). Predictions prolonge la droite
// y = Intercept + Slope*i sur l'horizon demandé, i étant l'index de période.
type Forecast struct {
	ProductID   catalogdomain.ProductID `json:"id_produto"`
	ProductName string                  `json:"nome"`
	Metric      salesdomain.Metric      `json:"metrica"`
	Granularity domain.Granularity      `json:"granularidade"`
	History     []SeriesPoint           `json:"historico"`
	Predictions []SeriesPoint           `json:"previsao"`
	Slope       float64                 `json:"inclinacao"`
	Intercept   float64                 `json:"intercepto"`
}

// Values retourne les valeurs prévues dans l'ordre
func (f *Forecast) Values() []float64 {
	out := make([]float64, len(f.Predictions))
	for i, p := range f.Predictions {
		out[i] = p.Value
	}
	return out
}
