package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	exportdomain "chatvendas/internal/export/domain"
	"chatvendas/internal/ingest/domain"
	salesdomain "chatvendas/internal/sales/domain"
)

// Loader lit les trois sources brutes
type Loader interface {
	Load(ctx context.Context, src domain.Sources) (map[domain.TableName]*domain.RawTable, error)
}

// Store persiste l'instantané nettoyé
type Store interface {
	StoreCleanTables(ctx context.Context, ds *salesdomain.Dataset, audit *domain.AuditLog) (string, error)
}

// Exporter écrit les tables nettoyées sur disque
type Exporter interface {
	Export(ctx context.Context, ds *salesdomain.Dataset, job *exportdomain.ExportJob) ([]string, error)
}

// Report résultat d'une ingestion complète
type Report struct {
	Dataset  *salesdomain.Dataset
	Audit    *domain.AuditLog
	RunID    string
	Exported []string
	Duration time.Duration
}

// Ingestor enchaîne lecture, nettoyage, persistance et export
// store et exporter sont optionnels.
type Ingestor struct {
	loader   Loader
	cleaner  *Cleaner
	store    Store
	exporter Exporter
	job      *exportdomain.ExportJob
	logger   *slog.Logger
}

// NewIngestor crée un Ingestor
func NewIngestor(loader Loader, cleaner *Cleaner, store Store, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cleaner == nil {
		cleaner = NewCleaner(logger)
	}
	return &Ingestor{loader: loader, cleaner: cleaner, store: store, logger: logger}
}

// WithExport active l'export des tables nettoyées
func (in *Ingestor) WithExport(exporter Exporter, job *exportdomain.ExportJob) *Ingestor {
	in.exporter = exporter
	in.job = job
	return in
}

// Run exécute l'ingestion; toute erreur est fatale et rien n'est publié
func (in *Ingestor) Run(ctx context.Context, src domain.Sources) (*Report, error) {
	start := time.Now()

	tables, err := in.loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}

	ds, audit, err := in.cleaner.Clean(tables[domain.TableProducts], tables[domain.TableVendors], tables[domain.TableSales])
	if err != nil {
		return nil, fmt.Errorf("clean sources: %w", err)
	}
	for _, line := range audit.Lines() {
		in.logger.Info(line)
	}

	report := &Report{Dataset: ds, Audit: audit}

	if in.store != nil {
		report.RunID, err = in.store.StoreCleanTables(ctx, ds, audit)
		if err != nil {
			return nil, err
		}
	}

	if in.exporter != nil && in.job != nil {
		report.Exported, err = in.exporter.Export(ctx, ds, in.job)
		if err != nil {
			return nil, fmt.Errorf("export clean tables: %w", err)
		}
	}

	report.Duration = time.Since(start)
	in.logger.Info("ingestion finished",
		"run", report.RunID, "sales", len(ds.Sales()), "exported", len(report.Exported), "duration", report.Duration)
	return report, nil
}
