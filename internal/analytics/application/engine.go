package application

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"chatvendas/internal/analytics/domain"
	catalogdomain "chatvendas/internal/catalog/domain"
	salesdomain "chatvendas/internal/sales/domain"
	"chatvendas/internal/shared/textnorm"
)

// Les fonctions du moteur sont pures: elles lisent un Dataset immuable et ne
// gardent aucun état. Toute valeur monétaire est sommée à partir du total
// enregistré de chaque vente, jamais recalculée.

// TotalSales total des ventes d'un produit, d'un vendeur ou d'une vente
func TotalSales(ds *salesdomain.Dataset, scope domain.Scope, id int64) (domain.EntityTotal, error) {
	res := domain.EntityTotal{Scope: scope, ID: id}

	var match func(*salesdomain.Sale) bool
	switch scope {
	case domain.ScopeProduct:
		res.Name = ds.ProductName(catalogdomain.ProductID(id))
		match = func(s *salesdomain.Sale) bool { return int64(s.ProductID()) == id }
	case domain.ScopeVendor:
		res.Name = ds.VendorName(catalogdomain.VendorID(id))
		match = func(s *salesdomain.Sale) bool { return int64(s.VendorID()) == id }
	case domain.ScopeSale:
		match = func(s *salesdomain.Sale) bool { return int64(s.ID()) == id }
	default:
		return res, fmt.Errorf("unknown scope %q", scope)
	}

	for _, s := range ds.Sales() {
		if !match(s) {
			continue
		}
		res.Sales++
		res.Quantity += s.Quantity().Value()
		res.Value += s.TotalValue().Amount()
		if scope == domain.ScopeSale {
			res.Name = ds.ProductName(s.ProductID())
		}
	}

	if res.Sales == 0 {
		return res, fmt.Errorf("%s %d: %w", scope, id, domain.ErrNotFound)
	}
	return res, nil
}

// SalesByRegion cumule les ventes par région du vendeur, par valeur décroissante
// Un vendeur sans région est compté sous "Not Informed".
func SalesByRegion(ds *salesdomain.Dataset) []domain.RegionTotal {
	idx := make(map[string]int)
	var out []domain.RegionTotal

	for _, s := range ds.Sales() {
		region := catalogdomain.RegionNotInformed
		if v, ok := ds.Vendor(s.VendorID()); ok {
			region = v.RegionLabel()
		}
		i, ok := idx[region]
		if !ok {
			i = len(out)
			idx[region] = i
			out = append(out, domain.RegionTotal{Region: region})
		}
		out[i].Sales++
		out[i].Quantity += s.Quantity().Value()
		out[i].Value += s.TotalValue().Amount()
	}

	slices.SortStableFunc(out, func(a, b domain.RegionTotal) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Region, b.Region)
	})
	return out
}

// TopProductsByCategoryYear produits d'une catégorie vendus une année donnée
//
// La catégorie est comparée par inclusion, sans casse ni accents. year == 0
// couvre toutes les années (les ventes sans date sont alors incluses).
// Le résultat est trié par valeur CROISSANTE puis tronqué à n.
func TopProductsByCategoryYear(ds *salesdomain.Dataset, category string, year, n int) []domain.ProductTotal {
	needle := textnorm.Fold(strings.TrimSpace(category))

	totals := aggregateProducts(ds, func(s *salesdomain.Sale) bool {
		if year != 0 && (!s.HasDate() || s.Date().Year() != year) {
			return false
		}
		p, ok := ds.Product(s.ProductID())
		return ok && strings.Contains(textnorm.Fold(p.Category()), needle)
	})

	slices.SortStableFunc(totals, func(a, b domain.ProductTotal) int {
		if c := cmp.Compare(a.Value, b.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return truncate(totals, n)
}

// TopProducts classement décroissant des produits sur la métrique
func TopProducts(ds *salesdomain.Dataset, n int, metric salesdomain.Metric) []domain.ProductTotal {
	totals := TotalsByProduct(ds, metric)
	return truncate(totals, n)
}

// TotalsByProduct cumul de tous les produits vendus, trié par métrique décroissante
func TotalsByProduct(ds *salesdomain.Dataset, metric salesdomain.Metric) []domain.ProductTotal {
	totals := aggregateProducts(ds, nil)
	slices.SortStableFunc(totals, func(a, b domain.ProductTotal) int {
		if c := cmp.Compare(b.Measure(metric), a.Measure(metric)); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return totals
}

// TotalsByVendor cumul des ventes par vendeur, par valeur décroissante
func TotalsByVendor(ds *salesdomain.Dataset) []domain.VendorTotal {
	idx := make(map[catalogdomain.VendorID]int)
	var out []domain.VendorTotal

	for _, s := range ds.Sales() {
		i, ok := idx[s.VendorID()]
		if !ok {
			i = len(out)
			idx[s.VendorID()] = i
			vt := domain.VendorTotal{VendorID: s.VendorID(), Name: ds.VendorName(s.VendorID())}
			if v, found := ds.Vendor(s.VendorID()); found {
				vt.Region = v.RegionLabel()
			}
			out = append(out, vt)
		}
		out[i].Quantity += s.Quantity().Value()
		out[i].Value += s.TotalValue().Amount()
	}

	slices.SortStableFunc(out, func(a, b domain.VendorTotal) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.VendorID, b.VendorID)
	})
	return out
}

// aggregateProducts cumule par produit les ventes retenues par keep (nil = toutes)
// dans l'ordre de première apparition
func aggregateProducts(ds *salesdomain.Dataset, keep func(*salesdomain.Sale) bool) []domain.ProductTotal {
	idx := make(map[catalogdomain.ProductID]int)
	var out []domain.ProductTotal

	for _, s := range ds.Sales() {
		if keep != nil && !keep(s) {
			continue
		}
		i, ok := idx[s.ProductID()]
		if !ok {
			i = len(out)
			idx[s.ProductID()] = i
			pt := domain.ProductTotal{ProductID: s.ProductID(), Name: ds.ProductName(s.ProductID())}
			if p, found := ds.Product(s.ProductID()); found {
				pt.Category = p.Category()
			}
			out = append(out, pt)
		}
		out[i].Quantity += s.Quantity().Value()
		out[i].Value += s.TotalValue().Amount()
	}
	return out
}

func truncate[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
