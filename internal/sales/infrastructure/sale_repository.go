package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"chatvendas/database"
	catalogdomain "chatvendas/internal/catalog/domain"
	"chatvendas/internal/sales/domain"
	shareddomain "chatvendas/internal/shared/domain"
	"chatvendas/internal/shared/infrastructure"
)

// SaleRepository lecture et remplacement de la table vendas
type SaleRepository struct {
	infrastructure.BaseRepository
}

// NewSaleRepository crée un repository sur db
func NewSaleRepository(db *sql.DB, dialect infrastructure.Dialect) *SaleRepository {
	return &SaleRepository{
		BaseRepository: infrastructure.NewBaseRepository(db, dialect),
	}
}

// WithTx retourne une copie liée à la transaction
func (r *SaleRepository) WithTx(tx *sql.Tx) *SaleRepository {
	return &SaleRepository{BaseRepository: r.BaseRepository.WithTx(tx)}
}

// FindAllRecords récupère les lignes brutes de vendas par identifiant croissant
func (r *SaleRepository) FindAllRecords(ctx context.Context) ([]database.SaleRecord, error) {
	rows, err := r.Query(ctx, `
		SELECT id_venda, id_produto, id_vendedor, quantidade, data_venda, preco_unitario, valor_total
		FROM vendas
		ORDER BY id_venda
	`)
	if err != nil {
		return nil, fmt.Errorf("query vendas: %w", err)
	}
	defer rows.Close()

	var records []database.SaleRecord
	for rows.Next() {
		var (
			rec  database.SaleRecord
			date sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.VendorID, &rec.Quantity, &date, &rec.UnitPrice, &rec.TotalValue); err != nil {
			return nil, fmt.Errorf("scan venda: %w", err)
		}
		if date.Valid && date.String != "" {
			rec.Date = &date.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FindAll récupère les ventes sous forme d'objets du domaine
func (r *SaleRepository) FindAll(ctx context.Context) ([]*domain.Sale, error) {
	records, err := r.FindAllRecords(ctx)
	if err != nil {
		return nil, err
	}

	sales := make([]*domain.Sale, 0, len(records))
	for _, rec := range records {
		s, err := toSale(rec)
		if err != nil {
			return nil, fmt.Errorf("venda %d: %w", rec.ID, err)
		}
		sales = append(sales, s)
	}
	return sales, nil
}

// Insert insère les ventes (table supposée vide)
func (r *SaleRepository) Insert(ctx context.Context, sales []*domain.Sale) error {
	for _, s := range sales {
		rec := toRecord(s)
		if _, err := r.Exec(ctx, `
			INSERT INTO vendas (id_venda, id_produto, id_vendedor, quantidade, data_venda, preco_unitario, valor_total)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.ProductID, rec.VendorID, rec.Quantity, rec.Date, rec.UnitPrice, rec.TotalValue,
		); err != nil {
			return fmt.Errorf("insert venda %d: %w", rec.ID, err)
		}
	}
	return nil
}

// DeleteAll vide la table vendas
func (r *SaleRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.Exec(ctx, `DELETE FROM vendas`); err != nil {
		return fmt.Errorf("delete vendas: %w", err)
	}
	return nil
}

func toRecord(s *domain.Sale) database.SaleRecord {
	rec := database.SaleRecord{
		ID:         int64(s.ID()),
		ProductID:  int64(s.ProductID()),
		VendorID:   int64(s.VendorID()),
		Quantity:   s.Quantity().Value(),
		UnitPrice:  s.UnitPrice().Amount(),
		TotalValue: s.TotalValue().Amount(),
	}
	if s.HasDate() {
		d := s.Date().Format(time.DateOnly)
		rec.Date = &d
	}
	return rec
}

func toSale(rec database.SaleRecord) (*domain.Sale, error) {
	var date time.Time
	if rec.Date != nil {
		d, err := time.Parse(time.DateOnly, *rec.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	qty, err := shareddomain.NewQuantity(rec.Quantity)
	if err != nil {
		return nil, err
	}
	unit, err := shareddomain.NewBRL(rec.UnitPrice)
	if err != nil {
		return nil, err
	}
	total, err := shareddomain.NewBRL(rec.TotalValue)
	if err != nil {
		return nil, err
	}
	return domain.NewSale(
		domain.SaleID(rec.ID),
		catalogdomain.ProductID(rec.ProductID),
		catalogdomain.VendorID(rec.VendorID),
		qty, unit, total, date,
	)
}
