package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chatvendas/database"
	cataloginfra "chatvendas/internal/catalog/infrastructure"
	ingestdomain "chatvendas/internal/ingest/domain"
	"chatvendas/internal/sales/domain"
	"chatvendas/internal/shared/infrastructure"
)

// ErrNoCleanData aucune donnée nettoyée n'a encore été enregistrée
var ErrNoCleanData = errors.New("no clean data stored")

// DatasetStore persistance de l'instantané nettoyé
//
// StoreCleanTables remplace les trois tables en bloc dans une transaction:
// un lecteur voit soit l'ancien instantané complet, soit le nouveau.
type DatasetStore struct {
	db      *sql.DB
	dialect infrastructure.Dialect
	uow     infrastructure.UnitOfWork
	catalog *cataloginfra.CatalogRepository
	sales   *SaleRepository
	base    infrastructure.BaseRepository
	logger  *slog.Logger
}

// NewDatasetStore crée le store
func NewDatasetStore(db *sql.DB, dialect infrastructure.Dialect, logger *slog.Logger) *DatasetStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DatasetStore{
		db:      db,
		dialect: dialect,
		uow:     infrastructure.NewUnitOfWork(db),
		catalog: cataloginfra.NewCatalogRepository(db, dialect),
		sales:   NewSaleRepository(db, dialect),
		base:    infrastructure.NewBaseRepository(db, dialect),
		logger:  logger,
	}
}

// LoadCleanTables reconstruit l'instantané depuis la base
func (s *DatasetStore) LoadCleanTables(ctx context.Context) (*domain.Dataset, error) {
	products, err := s.catalog.FindAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	vendors, err := s.catalog.FindAllVendors(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 && len(vendors) == 0 && len(sales) == 0 {
		return nil, ErrNoCleanData
	}

	ds, err := domain.NewDataset(products, vendors, sales)
	if err != nil {
		return nil, fmt.Errorf("stored tables inconsistent: %w", err)
	}
	s.logger.Info("clean tables loaded",
		"products", len(products), "vendors", len(vendors), "sales", len(sales))
	return ds, nil
}

// StoreCleanTables remplace les tables et trace l'ingestion; retourne l'identifiant du run
func (s *DatasetStore) StoreCleanTables(ctx context.Context, ds *domain.Dataset, audit *ingestdomain.AuditLog) (string, error) {
	run := database.IngestionRun{
		ID:         uuid.NewString(),
		FinishedAt: time.Now().UTC().Format(time.RFC3339),
		Products:   len(ds.Products()),
		Vendors:    len(ds.Vendors()),
		Sales:      len(ds.Sales()),
	}
	if audit != nil {
		for _, t := range ingestdomain.Tables {
			run.Dropped += audit.Dropped(t)
		}
		run.Audit = audit.String()
	}

	err := s.uow.Execute(ctx, func(tx *sql.Tx) error {
		sales := s.sales.WithTx(tx)
		catalog := s.catalog.WithTx(tx)

		if err := sales.DeleteAll(ctx); err != nil {
			return err
		}
		if err := catalog.DeleteAll(ctx); err != nil {
			return err
		}
		if err := catalog.InsertProducts(ctx, ds.Products()); err != nil {
			return err
		}
		if err := catalog.InsertVendors(ctx, ds.Vendors()); err != nil {
			return err
		}
		if err := sales.Insert(ctx, ds.Sales()); err != nil {
			return err
		}

		base := s.base.WithTx(tx)
		if _, err := base.Exec(ctx, `
			INSERT INTO ingestion_runs (id, finished_at, products, vendors, sales, dropped, audit)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.FinishedAt, run.Products, run.Vendors, run.Sales, run.Dropped, run.Audit,
		); err != nil {
			return fmt.Errorf("insert ingestion run: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store clean tables: %w", err)
	}

	s.logger.Info("clean tables stored",
		"run", run.ID, "products", run.Products, "vendors", run.Vendors, "sales", run.Sales, "dropped", run.Dropped)
	return run.ID, nil
}

// LastRun dernière ingestion enregistrée
func (s *DatasetStore) LastRun(ctx context.Context) (*database.IngestionRun, error) {
	var run database.IngestionRun
	err := s.base.QueryRow(ctx, `
		SELECT id, finished_at, products, vendors, sales, dropped, audit
		FROM ingestion_runs
		ORDER BY finished_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.FinishedAt, &run.Products, &run.Vendors, &run.Sales, &run.Dropped, &run.Audit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCleanData
	}
	if err != nil {
		return nil, fmt.Errorf("query ingestion run: %w", err)
	}
	return &run, nil
}
