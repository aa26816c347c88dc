package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"chatvendas/internal/catalog/domain"
	shareddomain "chatvendas/internal/shared/domain"
	"chatvendas/internal/shared/infrastructure"
)

// CatalogRepository lecture et remplacement des tables produtos et vendedores
type CatalogRepository struct {
	infrastructure.BaseRepository
}

// NewCatalogRepository crée un repository sur db
func NewCatalogRepository(db *sql.DB, dialect infrastructure.Dialect) *CatalogRepository {
	return &CatalogRepository{
		BaseRepository: infrastructure.NewBaseRepository(db, dialect),
	}
}

// WithTx retourne une copie liée à la transaction
func (r *CatalogRepository) WithTx(tx *sql.Tx) *CatalogRepository {
	return &CatalogRepository{BaseRepository: r.BaseRepository.WithTx(tx)}
}

// FindAllProducts récupère tous les produits par identifiant croissant
func (r *CatalogRepository) FindAllProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.Query(ctx, `
		SELECT id_produto, nome, categoria, preco_unitario
		FROM produtos
		ORDER BY id_produto
	`)
	if err != nil {
		return nil, fmt.Errorf("query produtos: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var (
			id       int64
			name     string
			category string
			price    float64
		)
		if err := rows.Scan(&id, &name, &category, &price); err != nil {
			return nil, fmt.Errorf("scan produto: %w", err)
		}

		money, err := shareddomain.NewBRL(price)
		if err != nil {
			return nil, fmt.Errorf("produto %d: %w", id, err)
		}
		product, err := domain.NewProduct(domain.ProductID(id), name, category, money)
		if err != nil {
			return nil, fmt.Errorf("produto %d: %w", id, err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// FindAllVendors récupère tous les vendeurs par identifiant croissant
func (r *CatalogRepository) FindAllVendors(ctx context.Context) ([]*domain.Vendor, error) {
	rows, err := r.Query(ctx, `
		SELECT id_vendedor, nome, regiao
		FROM vendedores
		ORDER BY id_vendedor
	`)
	if err != nil {
		return nil, fmt.Errorf("query vendedores: %w", err)
	}
	defer rows.Close()

	var vendors []*domain.Vendor
	for rows.Next() {
		var (
			id     int64
			name   string
			region string
		)
		if err := rows.Scan(&id, &name, &region); err != nil {
			return nil, fmt.Errorf("scan vendedor: %w", err)
		}
		vendor, err := domain.NewVendor(domain.VendorID(id), name, region)
		if err != nil {
			return nil, fmt.Errorf("vendedor %d: %w", id, err)
		}
		vendors = append(vendors, vendor)
	}
	return vendors, rows.Err()
}

// InsertProducts insère les produits (table supposée vide)
func (r *CatalogRepository) InsertProducts(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		if _, err := r.Exec(ctx,
			`INSERT INTO produtos (id_produto, nome, categoria, preco_unitario) VALUES (?, ?, ?, ?)`,
			int64(p.ID()), p.Name(), p.Category(), p.UnitPrice().Amount(),
		); err != nil {
			return fmt.Errorf("insert produto %d: %w", p.ID(), err)
		}
	}
	return nil
}

// InsertVendors insère les vendeurs; la région brute (éventuellement vide) est conservée
func (r *CatalogRepository) InsertVendors(ctx context.Context, vendors []*domain.Vendor) error {
	for _, v := range vendors {
		if _, err := r.Exec(ctx,
			`INSERT INTO vendedores (id_vendedor, nome, regiao) VALUES (?, ?, ?)`,
			int64(v.ID()), v.Name(), v.Region(),
		); err != nil {
			return fmt.Errorf("insert vendedor %d: %w", v.ID(), err)
		}
	}
	return nil
}

// DeleteAll vide produtos et vendedores (les ventes doivent déjà être supprimées)
func (r *CatalogRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.Exec(ctx, `DELETE FROM vendedores`); err != nil {
		return fmt.Errorf("delete vendedores: %w", err)
	}
	if _, err := r.Exec(ctx, `DELETE FROM produtos`); err != nil {
		return fmt.Errorf("delete produtos: %w", err)
	}
	return nil
}
