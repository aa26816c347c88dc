package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"

	catalogdomain "chatvendas/internal/catalog/domain"
	salesdomain "chatvendas/internal/sales/domain"
	shareddomain "chatvendas/internal/shared/domain"
	sharedinfra "chatvendas/internal/shared/infrastructure"

	"chatvendas/database"
)

// ProductRow ligne de produit pour construire un jeu de test
type ProductRow struct {
	ID       int64
	Name     string
	Category string
	Price    float64
}

// VendorRow ligne de vendeur pour construire un jeu de test
type VendorRow struct {
	ID     int64
	Name   string
	Region string
}

// SaleRow ligne de vente; Date au format AAAA-MM-JJ ("" = sans date),
// Total négatif = quantité x prix
type SaleRow struct {
	ID        int64
	ProductID int64
	VendorID  int64
	Quantity  int
	Date      string
	Price     float64
	Total     float64
}

// NewDataset construit un instantané à partir de lignes déjà propres
func NewDataset(tb testing.TB, products []ProductRow, vendors []VendorRow, sales []SaleRow) *salesdomain.Dataset {
	tb.Helper()

	ps := make([]*catalogdomain.Product, 0, len(products))
	for _, r := range products {
		p, err := catalogdomain.NewProduct(catalogdomain.ProductID(r.ID), r.Name, r.Category, mustBRL(tb, r.Price))
		if err != nil {
			tb.Fatalf("product %d: %v", r.ID, err)
		}
		ps = append(ps, p)
	}

	vs := make([]*catalogdomain.Vendor, 0, len(vendors))
	for _, r := range vendors {
		v, err := catalogdomain.NewVendor(catalogdomain.VendorID(r.ID), r.Name, r.Region)
		if err != nil {
			tb.Fatalf("vendor %d: %v", r.ID, err)
		}
		vs = append(vs, v)
	}

	ss := make([]*salesdomain.Sale, 0, len(sales))
	for _, r := range sales {
		var date time.Time
		if r.Date != "" {
			d, err := time.Parse(time.DateOnly, r.Date)
			if err != nil {
				tb.Fatalf("sale %d: %v", r.ID, err)
			}
			date = d
		}
		total := r.Total
		if total < 0 {
			total = float64(r.Quantity) * r.Price
		}
		s, err := salesdomain.NewSale(
			salesdomain.SaleID(r.ID),
			catalogdomain.ProductID(r.ProductID),
			catalogdomain.VendorID(r.VendorID),
			shareddomain.MustNewQuantity(r.Quantity),
			mustBRL(tb, r.Price),
			mustBRL(tb, total),
			date,
		)
		if err != nil {
			tb.Fatalf("sale %d: %v", r.ID, err)
		}
		ss = append(ss, s)
	}

	ds, err := salesdomain.NewDataset(ps, vs, ss)
	if err != nil {
		tb.Fatalf("dataset: %v", err)
	}
	return ds
}

// SampleDataset jeu de référence: 3 produits, 3 vendeurs (dont un sans région)
// et 9 ventes réparties sur janvier à avril 2023, plus une vente 2022
func SampleDataset(tb testing.TB) *salesdomain.Dataset {
	tb.Helper()
	return NewDataset(tb,
		[]ProductRow{
			{ID: 1, Name: "Notebook", Category: "Eletrônicos", Price: 100},
			{ID: 2, Name: "Mouse", Category: "Eletrônicos", Price: 10},
			{ID: 3, Name: "Cadeira", Category: "Móveis", Price: 50},
		},
		[]VendorRow{
			{ID: 1, Name: "Ana", Region: "Sul"},
			{ID: 2, Name: "Bruno", Region: "Norte"},
			{ID: 3, Name: "Carla", Region: ""},
		},
		[]SaleRow{
			{ID: 1, ProductID: 1, VendorID: 1, Quantity: 1, Date: "2023-01-05", Price: 100, Total: 100},
			{ID: 2, ProductID: 1, VendorID: 1, Quantity: 2, Date: "2023-02-05", Price: 100, Total: 200},
			{ID: 3, ProductID: 1, VendorID: 2, Quantity: 3, Date: "2023-03-05", Price: 100, Total: 300},
			{ID: 4, ProductID: 1, VendorID: 2, Quantity: 4, Date: "2023-04-05", Price: 100, Total: 400},
			{ID: 5, ProductID: 2, VendorID: 2, Quantity: 5, Date: "2023-01-10", Price: 10, Total: 50},
			{ID: 6, ProductID: 2, VendorID: 3, Quantity: 5, Date: "2023-02-10", Price: 10, Total: 50},
			{ID: 7, ProductID: 3, VendorID: 3, Quantity: 2, Date: "2023-03-15", Price: 50, Total: 100},
			{ID: 8, ProductID: 3, VendorID: 1, Quantity: 1, Date: "2022-12-20", Price: 50, Total: 50},
			{ID: 9, ProductID: 2, VendorID: 1, Quantity: 1, Date: "", Price: 10, Total: 10},
		},
	)
}

func mustBRL(tb testing.TB, v float64) shareddomain.Money {
	tb.Helper()
	m, err := shareddomain.NewBRL(v)
	if err != nil {
		tb.Fatalf("money %v: %v", v, err)
	}
	return m
}

// NewTestLogger logger slog qui écrit dans t.Log
func NewTestLogger(tb testing.TB) *slog.Logger {
	tb.Helper()
	return slog.New(slog.NewTextHandler(&tbWriter{tb: tb}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type tbWriter struct {
	tb testing.TB
}

func (w *tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(p))
	return len(p), nil
}

var _ io.Writer = (*tbWriter)(nil)

// SetupTestDB ouvre une base SQLite en mémoire et applique les migrations
func SetupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", sanitize(tb.Name()))
	db, err := database.Open(ctx, database.Config{Driver: "sqlite", DSN: dsn})
	if err != nil {
		tb.Fatalf("Failed to open database: %v", err)
	}
	// une seule connexion: la base mémoire vit tant qu'elle reste ouverte
	db.SetMaxOpenConns(1)

	if err := database.Migrate(ctx, db, sharedinfra.DialectSQLite); err != nil {
		db.Close()
		tb.Fatalf("Failed to migrate database: %v", err)
	}

	tb.Cleanup(func() { db.Close() })
	return db
}

// SkipIfNoPostgres skip le test si CHATVENDAS_TEST_POSTGRES_DSN n'est pas
// défini ou si la base ne répond pas; retourne la connexion migrée sinon
func SkipIfNoPostgres(tb testing.TB) *sql.DB {
	tb.Helper()

	// .env à la racine du module, les tests tournent dans le répertoire du paquet
	for _, candidate := range []string{"../../.env", "../../../.env"} {
		if godotenv.Load(candidate) == nil {
			break
		}
	}

	dsn := os.Getenv("CHATVENDAS_TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("Database not available: CHATVENDAS_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Driver: "postgres", DSN: dsn})
	if err != nil {
		tb.Skip("Database not available:", err)
	}
	if err := database.Migrate(ctx, db, sharedinfra.DialectPostgres); err != nil {
		db.Close()
		tb.Fatalf("Failed to migrate database: %v", err)
	}

	tb.Cleanup(func() { db.Close() })
	return db
}

func sanitize(name string) string {
	out := []rune(name)
	for i, r := range out {
		if r == '/' || r == ' ' || r == '#' || r == '?' || r == '&' {
			out[i] = '_'
		}
	}
	return string(out)
}
