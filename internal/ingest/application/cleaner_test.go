package application

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatvendas/internal/ingest/domain"
)

func rawProducts(rows ...[]string) *domain.RawTable {
	return &domain.RawTable{
		Name:   domain.TableProducts,
		Header: []string{"Id_Produto", "Nome_Produto", "Categoria", "R$_Unit"},
		Rows:   rows,
	}
}

func rawVendors(rows ...[]string) *domain.RawTable {
	return &domain.RawTable{
		Name:   domain.TableVendors,
		Header: []string{"Id_Vendedor", "Nome_Vendedor", "Região"},
		Rows:   rows,
	}
}

func rawSales(rows ...[]string) *domain.RawTable {
	return &domain.RawTable{
		Name:   domain.TableSales,
		Header: []string{"Id_Venda", "Id_Produto", "Id_Vendedor", "Quantidade", "Data_Venda", "R$_Unit", "R$_Total"},
		Rows:   rows,
	}
}

func TestCleaner_DropsOrphanSale(t *testing.T) {
	c := NewCleaner(nil)

	ds, audit, err := c.Clean(
		rawProducts([]string{"1", "Caneta", "escritorio", "10"}),
		rawVendors([]string{"1", "Ana", "Sul"}),
		rawSales(
			[]string{"1", "1", "1", "5", "2023-01-10", "10", "50"},
			[]string{"2", "99", "1", "1", "2023-01-11", "10", "10"},
		),
	)
	require.NoError(t, err)

	require.Len(t, ds.Sales(), 1)
	assert.EqualValues(t, 1, ds.Sales()[0].ID())
	assert.Equal(t, 50.0, ds.Sales()[0].TotalValue().Amount())
	assert.Equal(t, 1, audit.Count(domain.TableSales, domain.RuleOrphanProduct))
	assert.Equal(t, 1, audit.Dropped(domain.TableSales))
	assert.Equal(t, 2, audit.Input(domain.TableSales))
	assert.Equal(t, 1, audit.Output(domain.TableSales))
}

func TestCleaner_AppliesEveryRule(t *testing.T) {
	c := NewCleaner(nil)

	ds, audit, err := c.Clean(
		rawProducts(
			[]string{"1", "Caneta", "escritorio", "10"},
			[]string{"2", "", "escritorio", "R$ 5,50"},
			[]string{"2", "Duplicado", "escritorio", "7"},
			[]string{"x", "Sem id", "escritorio", "7"},
			[]string{"3", "Negativo", "escritorio", "-1"},
		),
		rawVendors(
			[]string{"1", "Ana", "Sul"},
			[]string{"2", "Bruno", ""},
		),
		rawSales(
			[]string{"1", "1", "1", "5", "2023-01-10", "10", "50"},
			[]string{"1", "1", "1", "9", "2023-01-10", "10", "90"},  // doublon
			[]string{"2", "2", "2", "2", "15/02/2023", "5,50", ""},  // total dérivé
			[]string{"3", "1", "7", "1", "2023-02-01", "10", "10"},  // vendeur inexistant
			[]string{"4", "1", "1", "0", "2023-02-01", "10", "0"},   // quantité nulle
			[]string{"5", "1", "1", "2", "2023-02-01", "0", "0"},    // prix nul
			[]string{"6", "", "1", "2", "2023-02-01", "10", "20"},   // champ critique nul
			[]string{"7", "1", "2", "3", "", "10", "31"},            // sans date, total divergent
			[]string{"8", "3", "1", "3", "2023-03-01", "10", "30"},  // produit retiré
		),
	)
	require.NoError(t, err)

	assert.Len(t, ds.Products(), 2)
	assert.Len(t, ds.Vendors(), 2)
	require.Len(t, ds.Sales(), 3)

	assert.Equal(t, 2, audit.Count(domain.TableProducts, domain.RuleCriticalNull))
	assert.Equal(t, 1, audit.Count(domain.TableProducts, domain.RuleDuplicateID))
	assert.Equal(t, 1, audit.Count(domain.TableVendors, domain.RuleDefaultedRegion))
	assert.Equal(t, 1, audit.Count(domain.TableSales, domain.RuleCriticalNull))
	assert.Equal(t, 1, audit.Count(domain.TableSales, domain.RuleOrphanProduct))
	assert.Equal(t, 1, audit.Count(domain.TableSales, domain.RuleOrphanVendor))
	assert.Equal(t, 1, audit.Count(domain.TableSales, domain.RuleDuplicateID))
	assert.Equal(t, 2, audit.Count(domain.TableSales, domain.RuleNonPositive))
	assert.Equal(t, 1, audit.Count(domain.TableSales, domain.RuleTotalDerived))
	assert.Equal(t, 1, audit.Count(domain.TableSales, domain.RuleTotalMismatch))
	assert.Equal(t, 1, audit.Count(domain.TableSales, domain.RuleMissingDate))

	p2, ok := ds.Product(2)
	require.True(t, ok)
	assert.Equal(t, "Unknown", p2.Name())

	v2, ok := ds.Vendor(2)
	require.True(t, ok)
	assert.Equal(t, "Not Informed", v2.RegionLabel())

	// première occurrence conservée, total dérivé, total divergent conservé
	assert.Equal(t, 50.0, ds.Sales()[0].TotalValue().Amount())
	assert.InDelta(t, 11.0, ds.Sales()[1].TotalValue().Amount(), 1e-9)
	assert.Equal(t, 31.0, ds.Sales()[2].TotalValue().Amount())
	assert.False(t, ds.Sales()[2].HasDate())

	assert.NotEmpty(t, audit.Lines())
}

func TestCleaner_PostConditions(t *testing.T) {
	c := NewCleaner(nil)
	ds, _, err := c.Clean(
		rawProducts([]string{"1", "A", "x", "1"}, []string{"2", "B", "x", "2"}),
		rawVendors([]string{"1", "V", "Norte"}),
		rawSales(
			[]string{"1", "1", "1", "1", "2023-01-01", "1", "1"},
			[]string{"2", "2", "1", "-4", "2023-01-01", "2", "8"},
			[]string{"3", "2", "2", "4", "2023-01-01", "2", "8"},
			[]string{"3", "1", "1", "4", "2023-01-01", "2", "8"},
			[]string{"4", "2", "1", "4", "2023-01-01", "2", "8"},
		),
	)
	require.NoError(t, err)

	seen := map[int64]bool{}
	for _, s := range ds.Sales() {
		_, pOK := ds.Product(s.ProductID())
		_, vOK := ds.Vendor(s.VendorID())
		assert.True(t, pOK)
		assert.True(t, vOK)
		assert.Positive(t, s.Quantity().Value())
		assert.Positive(t, s.UnitPrice().Amount())
		assert.False(t, seen[int64(s.ID())])
		seen[int64(s.ID())] = true
	}
}

func TestCleaner_StructuralFailures(t *testing.T) {
	c := NewCleaner(nil)

	_, _, err := c.Clean(rawProducts(), nil, rawSales())
	var missing *domain.MissingSourceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, domain.TableVendors, missing.Table)
	assert.ErrorIs(t, err, domain.ErrMissingSource)

	noPrice := &domain.RawTable{Name: domain.TableProducts, Header: []string{"Id_Produto", "Nome_Produto"}}
	_, _, err = c.Clean(noPrice, rawVendors(), rawSales())
	assert.ErrorIs(t, err, domain.ErrValidation)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, domain.ColUnitPrice, verr.Column)
}

func BenchmarkCleaner_Clean(b *testing.B) {
	products := rawProducts()
	vendors := rawVendors()
	for i := 1; i <= 100; i++ {
		id := strconv.Itoa(i)
		products.Rows = append(products.Rows, []string{id, "P" + id, "cat", "10"})
		vendors.Rows = append(vendors.Rows, []string{id, "V" + id, "Sul"})
	}
	sales := rawSales()
	for i := 1; i <= 10000; i++ {
		sales.Rows = append(sales.Rows, []string{strconv.Itoa(i), strconv.Itoa(i%100 + 1), strconv.Itoa(i%50 + 1), "2", "2023-05-01", "10", "20"})
	}
	c := NewCleaner(nil)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, _, err := c.Clean(products, vendors, sales); err != nil {
			b.Fatal(err)
		}
	}
}
