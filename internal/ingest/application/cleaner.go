package application

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	catalogdomain "chatvendas/internal/catalog/domain"
	"chatvendas/internal/ingest/domain"
	salesdomain "chatvendas/internal/sales/domain"
	shareddomain "chatvendas/internal/shared/domain"
)

// totalTolerance écart toléré entre total enregistré et quantité x prix
const totalTolerance = 0.01

// Cleaner valide et nettoie les trois tables brutes
//
// Ordre des étapes (fixe):
//  1. présence des trois tables
//  2. normalisation des en-têtes et synonymes
//  3. conversion des types (valeurs illisibles -> nulles)
//  4. suppression des lignes à champ critique nul, dédoublonnage produits/vendeurs
//  5. intégrité référentielle des ventes
//  6. dédoublonnage des ventes (première occurrence conservée)
//  7. quantités et prix non positifs
//  8. journal d'audit
//
// Un problème de ligne ne fait jamais échouer le nettoyage, seule une table
// absente ou sans colonne critique le fait.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner crée un Cleaner; logger nil = journal silencieux
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cleaner{logger: logger}
}

type productRow struct {
	id       int64
	name     string
	category string
	price    float64
	valid    bool
}

type vendorRow struct {
	id     int64
	name   string
	region string
	valid  bool
}

type saleRow struct {
	id        int64
	productID int64
	vendorID  int64
	quantity  int64
	unitPrice float64
	total     float64
	hasTotal  bool
	date      time.Time
	hasDate   bool
	valid     bool
}

// Clean exécute les étapes de nettoyage et retourne l'instantané et son journal
func (c *Cleaner) Clean(products, vendors, sales *domain.RawTable) (*salesdomain.Dataset, *domain.AuditLog, error) {
	// 1. Présence
	for i, t := range []*domain.RawTable{products, vendors, sales} {
		if t == nil {
			return nil, nil, &domain.MissingSourceError{Table: domain.Tables[i]}
		}
	}

	// 2. En-têtes
	pIdx, err := domain.Schemas[domain.TableProducts].Resolve(products.Header)
	if err != nil {
		return nil, nil, err
	}
	vIdx, err := domain.Schemas[domain.TableVendors].Resolve(vendors.Header)
	if err != nil {
		return nil, nil, err
	}
	sIdx, err := domain.Schemas[domain.TableSales].Resolve(sales.Header)
	if err != nil {
		return nil, nil, err
	}

	audit := domain.NewAuditLog()
	audit.SetInput(domain.TableProducts, len(products.Rows))
	audit.SetInput(domain.TableVendors, len(vendors.Rows))
	audit.SetInput(domain.TableSales, len(sales.Rows))

	// 3. Conversion
	pRows := coerceProducts(products, pIdx)
	vRows := coerceVendors(vendors, vIdx)
	sRows := coerceSales(sales, sIdx)

	// 4. Champs critiques puis unicité des identifiants de référence
	pRows = keepValid(pRows, func(r productRow) bool { return r.valid }, audit, domain.TableProducts)
	vRows = keepValid(vRows, func(r vendorRow) bool { return r.valid }, audit, domain.TableVendors)
	sRows = keepValid(sRows, func(r saleRow) bool { return r.valid }, audit, domain.TableSales)

	pRows = dedupe(pRows, func(r productRow) int64 { return r.id }, audit, domain.TableProducts)
	vRows = dedupe(vRows, func(r vendorRow) int64 { return r.id }, audit, domain.TableVendors)

	// 5. Intégrité référentielle
	productIDs := make(map[int64]struct{}, len(pRows))
	for _, p := range pRows {
		productIDs[p.id] = struct{}{}
	}
	vendorIDs := make(map[int64]struct{}, len(vRows))
	for _, v := range vRows {
		vendorIDs[v.id] = struct{}{}
	}
	sRows = filterRule(sRows, func(r saleRow) bool {
		_, ok := productIDs[r.productID]
		return ok
	}, audit, domain.TableSales, domain.RuleOrphanProduct)
	sRows = filterRule(sRows, func(r saleRow) bool {
		_, ok := vendorIDs[r.vendorID]
		return ok
	}, audit, domain.TableSales, domain.RuleOrphanVendor)

	// 6. Unicité des ventes
	sRows = dedupe(sRows, func(r saleRow) int64 { return r.id }, audit, domain.TableSales)

	// 7. Valeurs aberrantes
	sRows = filterRule(sRows, func(r saleRow) bool {
		return r.quantity > 0 && r.unitPrice > 0
	}, audit, domain.TableSales, domain.RuleNonPositive)

	ds, err := c.build(pRows, vRows, sRows, audit)
	if err != nil {
		return nil, nil, err
	}

	// 8. Journal
	audit.SetOutput(domain.TableProducts, len(ds.Products()))
	audit.SetOutput(domain.TableVendors, len(ds.Vendors()))
	audit.SetOutput(domain.TableSales, len(ds.Sales()))
	for _, e := range audit.Entries() {
		c.logger.Info("cleaning rule applied",
			"table", e.Table, "rule", e.Rule, "count", e.Count, "dropped", e.Rule.Drops())
	}
	c.logger.Info("dataset cleaned",
		"products", len(ds.Products()), "vendors", len(ds.Vendors()), "sales", len(ds.Sales()))

	return ds, audit, nil
}

// build convertit les lignes retenues en objets du domaine
func (c *Cleaner) build(pRows []productRow, vRows []vendorRow, sRows []saleRow, audit *domain.AuditLog) (*salesdomain.Dataset, error) {
	products := make([]*catalogdomain.Product, 0, len(pRows))
	for _, r := range pRows {
		price, err := shareddomain.NewBRL(r.price)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", r.id, err)
		}
		p, err := catalogdomain.NewProduct(catalogdomain.ProductID(r.id), r.name, r.category, price)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", r.id, err)
		}
		products = append(products, p)
	}

	vendors := make([]*catalogdomain.Vendor, 0, len(vRows))
	noRegion := 0
	for _, r := range vRows {
		if r.region == "" {
			noRegion++
		}
		v, err := catalogdomain.NewVendor(catalogdomain.VendorID(r.id), r.name, r.region)
		if err != nil {
			return nil, fmt.Errorf("vendor %d: %w", r.id, err)
		}
		vendors = append(vendors, v)
	}
	audit.Record(domain.TableVendors, domain.RuleDefaultedRegion, noRegion)

	sales := make([]*salesdomain.Sale, 0, len(sRows))
	derived, mismatched, undated := 0, 0, 0
	for _, r := range sRows {
		expected := float64(r.quantity) * r.unitPrice
		total := r.total
		if !r.hasTotal {
			total = expected
			derived++
		} else if math.Abs(total-expected) > totalTolerance {
			mismatched++
		}
		if !r.hasDate {
			undated++
		}

		qty, err := shareddomain.NewQuantity(int(r.quantity))
		if err != nil {
			return nil, fmt.Errorf("sale %d: %w", r.id, err)
		}
		unit, err := shareddomain.NewBRL(r.unitPrice)
		if err != nil {
			return nil, fmt.Errorf("sale %d: %w", r.id, err)
		}
		totalValue, err := shareddomain.NewBRL(total)
		if err != nil {
			return nil, fmt.Errorf("sale %d: %w", r.id, err)
		}
		s, err := salesdomain.NewSale(
			salesdomain.SaleID(r.id),
			catalogdomain.ProductID(r.productID),
			catalogdomain.VendorID(r.vendorID),
			qty, unit, totalValue, r.date,
		)
		if err != nil {
			return nil, fmt.Errorf("sale %d: %w", r.id, err)
		}
		sales = append(sales, s)
	}
	audit.Record(domain.TableSales, domain.RuleTotalDerived, derived)
	audit.Record(domain.TableSales, domain.RuleTotalMismatch, mismatched)
	audit.Record(domain.TableSales, domain.RuleMissingDate, undated)

	return salesdomain.NewDataset(products, vendors, sales)
}

func coerceProducts(t *domain.RawTable, idx domain.ColumnIndex) []productRow {
	rows := make([]productRow, 0, len(t.Rows))
	for i := range t.Rows {
		id, idOK := parseID(t.Cell(i, idx.Get(domain.ColID)))
		price, priceOK := parseNumber(t.Cell(i, idx.Get(domain.ColUnitPrice)))
		rows = append(rows, productRow{
			id:       id,
			name:     strings.TrimSpace(t.Cell(i, idx.Get(domain.ColName))),
			category: strings.TrimSpace(t.Cell(i, idx.Get(domain.ColCategory))),
			price:    price,
			valid:    idOK && priceOK && price >= 0,
		})
	}
	return rows
}

func coerceVendors(t *domain.RawTable, idx domain.ColumnIndex) []vendorRow {
	rows := make([]vendorRow, 0, len(t.Rows))
	for i := range t.Rows {
		id, ok := parseID(t.Cell(i, idx.Get(domain.ColID)))
		rows = append(rows, vendorRow{
			id:     id,
			name:   strings.TrimSpace(t.Cell(i, idx.Get(domain.ColName))),
			region: strings.TrimSpace(t.Cell(i, idx.Get(domain.ColRegion))),
			valid:  ok,
		})
	}
	return rows
}

func coerceSales(t *domain.RawTable, idx domain.ColumnIndex) []saleRow {
	rows := make([]saleRow, 0, len(t.Rows))
	for i := range t.Rows {
		id, idOK := parseID(t.Cell(i, idx.Get(domain.ColID)))
		productID, pOK := parseID(t.Cell(i, idx.Get(domain.ColProductID)))
		vendorID, vOK := parseID(t.Cell(i, idx.Get(domain.ColVendorID)))
		qty, qOK := parseInteger(t.Cell(i, idx.Get(domain.ColQuantity)))
		price, prOK := parseNumber(t.Cell(i, idx.Get(domain.ColUnitPrice)))
		total, tOK := parseNumber(t.Cell(i, idx.Get(domain.ColTotalValue)))
		date, dOK := parseDate(t.Cell(i, idx.Get(domain.ColDate)))

		rows = append(rows, saleRow{
			id:        id,
			productID: productID,
			vendorID:  vendorID,
			quantity:  qty,
			unitPrice: price,
			total:     total,
			hasTotal:  tOK && total >= 0,
			date:      date,
			hasDate:   dOK,
			valid:     idOK && pOK && vOK && qOK && prOK,
		})
	}
	return rows
}

// keepValid retire les lignes dont un champ critique est nul
func keepValid[T any](rows []T, ok func(T) bool, audit *domain.AuditLog, table domain.TableName) []T {
	return filterRule(rows, ok, audit, table, domain.RuleCriticalNull)
}

// filterRule conserve les lignes satisfaisant keep et journalise le reste sous rule
func filterRule[T any](rows []T, keep func(T) bool, audit *domain.AuditLog, table domain.TableName, rule domain.Rule) []T {
	out := rows[:0]
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	audit.Record(table, rule, len(rows)-len(out))
	return out
}

// dedupe conserve la première occurrence de chaque identifiant
func dedupe[T any](rows []T, key func(T) int64, audit *domain.AuditLog, table domain.TableName) []T {
	seen := make(map[int64]struct{}, len(rows))
	return filterRule(rows, func(r T) bool {
		k := key(r)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	}, audit, table, domain.RuleDuplicateID)
}
