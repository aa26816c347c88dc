package application

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"chatvendas/internal/analytics/domain"
	catalogdomain "chatvendas/internal/catalog/domain"
	salesdomain "chatvendas/internal/sales/domain"
	shareddomain "chatvendas/internal/shared/domain"
)

// growthGrid ventes par vendeur sur la grille des mois observés
//
// La grille contient tous les mois où au moins une vente datée existe, tous
// vendeurs confondus; un vendeur sans vente un mois donné y vaut 0.
type growthGrid struct {
	months  []shareddomain.Period
	series  map[catalogdomain.VendorID][]float64
	vendors []catalogdomain.VendorID
}

func buildGrowthGrid(ds *salesdomain.Dataset, metric salesdomain.Metric) growthGrid {
	col := make(map[shareddomain.Period]int)
	for _, s := range ds.Sales() {
		if s.HasDate() {
			col[shareddomain.PeriodOf(s.Date(), shareddomain.GranularityMonth)] = 0
		}
	}

	g := growthGrid{series: make(map[catalogdomain.VendorID][]float64)}
	for p := range col {
		g.months = append(g.months, p)
	}
	slices.SortFunc(g.months, func(a, b shareddomain.Period) int {
		return cmp.Compare(a.Ordinal(), b.Ordinal())
	})
	for i, p := range g.months {
		col[p] = i
	}

	for _, s := range ds.Sales() {
		if !s.HasDate() {
			continue
		}
		row, ok := g.series[s.VendorID()]
		if !ok {
			row = make([]float64, len(g.months))
			g.series[s.VendorID()] = row
			g.vendors = append(g.vendors, s.VendorID())
		}
		row[col[shareddomain.PeriodOf(s.Date(), shareddomain.GranularityMonth)]] += s.Measure(metric)
	}
	return g
}

// meanGrowth moyenne des variations relatives successives
//
// x/0 avec x != 0 donne ±Inf, ramené à 0 mais compté dans la moyenne;
// 0/0 donne NaN, ignoré. Sans aucune variation exploitable le résultat vaut 0.
func meanGrowth(series []float64) float64 {
	sum, n := 0.0, 0
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		change := (cur - prev) / prev
		switch {
		case math.IsNaN(change):
			continue
		case math.IsInf(change, 0):
			change = 0
		}
		sum += change
		n++
	}
	if n == 0 {
		return 0
	}
	return round4(sum / float64(n))
}

func round4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return 0 // pas de -0
	}
	return r
}

func defaultMetric(m salesdomain.Metric) salesdomain.Metric {
	if m == "" {
		return salesdomain.MetricQuantity
	}
	return m
}

// TopVendorsByGrowth classe les vendeurs ayant des ventes datées par potentiel
// de croissance décroissant et retourne les n premiers
func TopVendorsByGrowth(ds *salesdomain.Dataset, n int, metric salesdomain.Metric) []domain.VendorGrowth {
	metric = defaultMetric(metric)
	g := buildGrowthGrid(ds, metric)

	out := make([]domain.VendorGrowth, 0, len(g.vendors))
	for _, id := range g.vendors {
		out = append(out, vendorGrowth(ds, id, meanGrowth(g.series[id]), metric))
	}
	slices.SortStableFunc(out, func(a, b domain.VendorGrowth) int {
		if c := cmp.Compare(b.Growth, a.Growth); c != 0 {
			return c
		}
		return cmp.Compare(a.VendorID, b.VendorID)
	})
	return truncate(out, n)
}

// VendorGrowthPotential potentiel de croissance d'un seul vendeur
// Un vendeur connu sans vente vaut 0; un identifiant absent de la table des
// vendeurs donne ErrNotFound.
func VendorGrowthPotential(ds *salesdomain.Dataset, vendorID catalogdomain.VendorID, metric salesdomain.Metric) (domain.VendorGrowth, error) {
	metric = defaultMetric(metric)
	if _, ok := ds.Vendor(vendorID); !ok {
		return domain.VendorGrowth{VendorID: vendorID, Metric: metric}, fmt.Errorf("vendor %d: %w", vendorID, domain.ErrNotFound)
	}

	g := buildGrowthGrid(ds, metric)
	growth := 0.0
	if series, ok := g.series[vendorID]; ok {
		growth = meanGrowth(series)
	}
	return vendorGrowth(ds, vendorID, growth, metric), nil
}

func vendorGrowth(ds *salesdomain.Dataset, id catalogdomain.VendorID, growth float64, metric salesdomain.Metric) domain.VendorGrowth {
	vg := domain.VendorGrowth{
		VendorID: id,
		Name:     ds.VendorName(id),
		Region:   catalogdomain.RegionNotInformed,
		Growth:   growth,
		Metric:   metric,
	}
	if v, ok := ds.Vendor(id); ok {
		vg.Region = v.RegionLabel()
	}
	return vg
}
