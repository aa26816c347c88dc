package domain

import (
	"fmt"
	"time"

	catalogdomain "chatvendas/internal/catalog/domain"
)

// Dataset instantané immuable des trois tables nettoyées
// Construit une seule fois après nettoyage ou chargement, puis partagé en lecture seule
// entre les requêtes (aucun verrou nécessaire).
type Dataset struct {
	products []*catalogdomain.Product
	vendors  []*catalogdomain.Vendor
	sales    []*Sale

	productIdx map[catalogdomain.ProductID]*catalogdomain.Product
	vendorIdx  map[catalogdomain.VendorID]*catalogdomain.Vendor
	builtAt    time.Time
}

// NewDataset assemble un instantané et vérifie unicité et intégrité référentielle
func NewDataset(
	products []*catalogdomain.Product,
	vendors []*catalogdomain.Vendor,
	sales []*Sale,
) (*Dataset, error) {
	ds := &Dataset{
		products:   products,
		vendors:    vendors,
		sales:      sales,
		productIdx: make(map[catalogdomain.ProductID]*catalogdomain.Product, len(products)),
		vendorIdx:  make(map[catalogdomain.VendorID]*catalogdomain.Vendor, len(vendors)),
		builtAt:    time.Now(),
	}

	for _, p := range products {
		if _, dup := ds.productIdx[p.ID()]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID())
		}
		ds.productIdx[p.ID()] = p
	}
	for _, v := range vendors {
		if _, dup := ds.vendorIdx[v.ID()]; dup {
			return nil, fmt.Errorf("duplicate vendor id %d", v.ID())
		}
		ds.vendorIdx[v.ID()] = v
	}

	seen := make(map[SaleID]struct{}, len(sales))
	for _, s := range sales {
		if _, dup := seen[s.ID()]; dup {
			return nil, fmt.Errorf("duplicate sale id %d", s.ID())
		}
		seen[s.ID()] = struct{}{}
		if _, ok := ds.productIdx[s.ProductID()]; !ok {
			return nil, fmt.Errorf("sale %d references unknown product %d", s.ID(), s.ProductID())
		}
		if _, ok := ds.vendorIdx[s.VendorID()]; !ok {
			return nil, fmt.Errorf("sale %d references unknown vendor %d", s.ID(), s.VendorID())
		}
	}

	return ds, nil
}

// Products retourne les produits dans l'ordre de la source
func (d *Dataset) Products() []*catalogdomain.Product {
	return d.products
}

// Vendors retourne les vendeurs dans l'ordre de la source
func (d *Dataset) Vendors() []*catalogdomain.Vendor {
	return d.vendors
}

// Sales retourne les ventes dans l'ordre de la source
func (d *Dataset) Sales() []*Sale {
	return d.sales
}

// Product recherche un produit par identifiant
func (d *Dataset) Product(id catalogdomain.ProductID) (*catalogdomain.Product, bool) {
	p, ok := d.productIdx[id]
	return p, ok
}

// Vendor recherche un vendeur par identifiant
func (d *Dataset) Vendor(id catalogdomain.VendorID) (*catalogdomain.Vendor, bool) {
	v, ok := d.vendorIdx[id]
	return v, ok
}

// ProductName retourne le nom du produit ou le nom par défaut
func (d *Dataset) ProductName(id catalogdomain.ProductID) string {
	if p, ok := d.productIdx[id]; ok {
		return p.Name()
	}
	return catalogdomain.DefaultProductName
}

// VendorName retourne le nom du vendeur ou le nom par défaut
func (d *Dataset) VendorName(id catalogdomain.VendorID) string {
	if v, ok := d.vendorIdx[id]; ok {
		return v.Name()
	}
	return catalogdomain.DefaultVendorName
}

// BuiltAt date de construction de l'instantané
func (d *Dataset) BuiltAt() time.Time {
	return d.builtAt
}

// IsEmpty vrai si aucune vente n'a survécu au nettoyage
func (d *Dataset) IsEmpty() bool {
	return len(d.sales) == 0
}
