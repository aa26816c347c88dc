package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "chatvendas/internal/catalog/domain"
	shareddomain "chatvendas/internal/shared/domain"
)

func brl(t *testing.T, v float64) shareddomain.Money {
	t.Helper()
	m, err := shareddomain.NewBRL(v)
	require.NoError(t, err)
	return m
}

func TestNewDataset_RejectsDanglingForeignKeys(t *testing.T) {
	p, err := catalogdomain.NewProduct(1, "Caneta", "escritorio", brl(t, 10))
	require.NoError(t, err)
	v, err := catalogdomain.NewVendor(1, "Ana", "Sul")
	require.NoError(t, err)

	ok, err := NewSale(1, 1, 1, shareddomain.MustNewQuantity(5), brl(t, 10), brl(t, 50), time.Time{})
	require.NoError(t, err)
	dangling, err := NewSale(2, 99, 1, shareddomain.MustNewQuantity(1), brl(t, 10), brl(t, 10), time.Time{})
	require.NoError(t, err)

	ds, err := NewDataset([]*catalogdomain.Product{p}, []*catalogdomain.Vendor{v}, []*Sale{ok})
	require.NoError(t, err)
	assert.Len(t, ds.Sales(), 1)
	assert.False(t, ds.Sales()[0].HasDate())
	assert.Equal(t, "Caneta", ds.ProductName(1))
	assert.Equal(t, catalogdomain.DefaultProductName, ds.ProductName(42))

	_, err = NewDataset([]*catalogdomain.Product{p}, []*catalogdomain.Vendor{v}, []*Sale{ok, dangling})
	assert.ErrorContains(t, err, "unknown product 99")

	_, err = NewDataset([]*catalogdomain.Product{p}, []*catalogdomain.Vendor{v}, []*Sale{ok, ok})
	assert.ErrorContains(t, err, "duplicate sale id 1")
}

func TestNewSale_Invariants(t *testing.T) {
	_, err := NewSale(1, 1, 1, shareddomain.MustNewQuantity(0), brl(t, 10), brl(t, 0), time.Time{})
	assert.Error(t, err)

	_, err = NewSale(1, 1, 1, shareddomain.MustNewQuantity(2), brl(t, 0), brl(t, 0), time.Time{})
	assert.Error(t, err)

	s, err := NewSale(1, 1, 1, shareddomain.MustNewQuantity(2), brl(t, 3), brl(t, 7), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 7.0, s.Measure(MetricValue))
	assert.Equal(t, 2.0, s.Measure(MetricQuantity))
}
