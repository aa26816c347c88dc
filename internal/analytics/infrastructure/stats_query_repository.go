package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"chatvendas/internal/analytics/domain"
	"chatvendas/internal/shared/infrastructure"
)

// StatsQueryRepository statistiques calculées directement en SQL
type StatsQueryRepository struct {
	infrastructure.BaseRepository
}

// NewStatsQueryRepository crée un nouveau repository de stats
func NewStatsQueryRepository(db *sql.DB, dialect infrastructure.Dialect) *StatsQueryRepository {
	return &StatsQueryRepository{
		BaseRepository: infrastructure.NewBaseRepository(db, dialect),
	}
}

// GetSummary compte les lignes et somme les ventes en une seule requête
func (r *StatsQueryRepository) GetSummary(ctx context.Context) (*domain.StoreSummary, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM produtos) as total_products,
		       (SELECT COUNT(*) FROM vendedores) as total_vendors,
		       COUNT(*) as total_sales,
		       COALESCE(SUM(quantidade), 0) as total_quantity,
		       COALESCE(SUM(valor_total), 0) as total_value,
		       MIN(data_venda) as first_sale,
		       MAX(data_venda) as last_sale
		FROM vendas
	`

	var (
		s           domain.StoreSummary
		first, last sql.NullString
	)
	err := r.QueryRow(ctx, query).Scan(&s.Products, &s.Vendors, &s.Sales, &s.Quantity, &s.TotalValue, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	s.FirstSale, s.LastSale = first.String, last.String
	return &s, nil
}

// GetCategoryDistribution répartition du chiffre d'affaires par catégorie
func (r *StatsQueryRepository) GetCategoryDistribution(ctx context.Context) ([]domain.CategoryShare, error) {
	query := `
		SELECT p.categoria,
		       COUNT(v.id_venda) as total_sales,
		       COALESCE(SUM(v.valor_total), 0) as total_value
		FROM produtos p
		LEFT JOIN vendas v ON v.id_produto = p.id_produto
		GROUP BY p.categoria
		ORDER BY total_value DESC, p.categoria
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query category distribution: %w", err)
	}
	defer rows.Close()

	// Premier passage: collecter les données et calculer le total
	var (
		shares     []domain.CategoryShare
		grandTotal float64
	)
	for rows.Next() {
		var c domain.CategoryShare
		if err := rows.Scan(&c.Category, &c.Sales, &c.Value); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		shares = append(shares, c)
		grandTotal += c.Value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Deuxième passage: calculer les pourcentages
	for i := range shares {
		if grandTotal > 0 {
			shares[i].Percentage = shares[i].Value / grandTotal * 100
		}
	}
	return shares, nil
}
