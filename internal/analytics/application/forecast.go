package application

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"chatvendas/internal/analytics/domain"
	catalogdomain "chatvendas/internal/catalog/domain"
	salesdomain "chatvendas/internal/sales/domain"
	shareddomain "chatvendas/internal/shared/domain"
)

// ProductSeries agrège les ventes datées d'un produit par période
//
// La série est continue: chaque période entre la première et la dernière vente
// est présente, à 0 si aucune vente. Vide si le produit n'a aucune vente datée.
func ProductSeries(ds *salesdomain.Dataset, productID catalogdomain.ProductID, g shareddomain.Granularity, metric salesdomain.Metric) []domain.SeriesPoint {
	sums := make(map[shareddomain.Period]float64)
	var first, last shareddomain.Period
	for _, s := range ds.Sales() {
		if s.ProductID() != productID || !s.HasDate() {
			continue
		}
		p := shareddomain.PeriodOf(s.Date(), g)
		if len(sums) == 0 || p.Before(first) {
			first = p
		}
		if len(sums) == 0 || last.Before(p) {
			last = p
		}
		sums[p] += s.Measure(metric)
	}
	if len(sums) == 0 {
		return nil
	}

	out := make([]domain.SeriesPoint, 0, last.Ordinal()-first.Ordinal()+1)
	for p := first; !last.Before(p); p = p.Add(1) {
		out = append(out, domain.NewSeriesPoint(p, sums[p]))
	}
	return out
}

// ForecastNextPeriod prévoit les horizon prochaines périodes d'un produit
//
// Une droite des moindres carrés est ajustée sur (index de période, valeur);
// avec une seule période la pente vaut 0 et la prévision reste au niveau
// observé. Les valeurs prévues négatives sont ramenées à 0.
func ForecastNextPeriod(
	ds *salesdomain.Dataset,
	productID catalogdomain.ProductID,
	horizon int,
	g shareddomain.Granularity,
	metric salesdomain.Metric,
) (*domain.Forecast, error) {
	if horizon < 1 {
		horizon = 1
	}
	if g == "" {
		g = shareddomain.GranularityMonth
	}
	metric = defaultMetric(metric)

	history := ProductSeries(ds, productID, g, metric)
	if len(history) == 0 {
		return nil, fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}

	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	for i, p := range history {
		xs[i] = float64(i)
		ys[i] = p.Value
	}

	intercept, slope := ys[0], 0.0
	if len(history) > 1 {
		intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	}

	lastPeriod := history[len(history)-1].Period
	predictions := make([]domain.SeriesPoint, horizon)
	for k := range horizon {
		x := float64(len(history) + k)
		predictions[k] = domain.NewSeriesPoint(lastPeriod.Add(k+1), math.Max(0, intercept+slope*x))
	}

	return &domain.Forecast{
		ProductID:   productID,
		ProductName: ds.ProductName(productID),
		Metric:      metric,
		Granularity: g,
		History:     history,
		Predictions: predictions,
		Slope:       slope,
		Intercept:   intercept,
	}, nil
}
