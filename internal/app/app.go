// Package app assemble les composants à partir de la configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"chatvendas/database"
	analyticsinfra "chatvendas/internal/analytics/infrastructure"
	assistant "chatvendas/internal/assistant/application"
	chartdomain "chatvendas/internal/chart/domain"
	chartinfra "chatvendas/internal/chart/infrastructure"
	"chatvendas/internal/config"
	exportapp "chatvendas/internal/export/application"
	exportdomain "chatvendas/internal/export/domain"
	ingest "chatvendas/internal/ingest/application"
	ingestdomain "chatvendas/internal/ingest/domain"
	ingestinfra "chatvendas/internal/ingest/infrastructure"
	salesinfra "chatvendas/internal/sales/infrastructure"
	sharedinfra "chatvendas/internal/shared/infrastructure"
)

// App composants partagés par le serveur et les CLIs
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sql.DB
	Dialect  sharedinfra.Dialect
	Store    *salesinfra.DatasetStore
	Stats    *analyticsinfra.StatsQueryRepository
	Exporter *exportapp.ExportService
	Renderer chartdomain.Renderer
	ChartDir string
	Gate     *assistant.Gate
	Service  *assistant.Service
	Ingestor *ingest.Ingestor

	cache *sharedinfra.ShardedCache
}

// New ouvre la base, applique les migrations et construit les services
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dialect, err := database.Dialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, database.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Dialect:  dialect,
		Store:    salesinfra.NewDatasetStore(db, dialect, logger),
		Stats:    analyticsinfra.NewStatsQueryRepository(db, dialect),
		Exporter: exportapp.NewExportService(cfg.Ingest.Workers, logger),
		Gate:     assistant.NewGate(),
		cache:    sharedinfra.NewShardedCache(cfg.Cache.Shards),
	}

	renderer, err := chartinfra.NewPlotRenderer(cfg.Charts.Dir, logger)
	if err != nil {
		logger.Warn("chart rendering disabled", "dir", cfg.Charts.Dir, "error", err)
		a.Renderer = chartinfra.NopRenderer{}
	} else {
		a.Renderer = renderer
		a.ChartDir = renderer.Dir()
	}

	a.Service = assistant.NewService(a.Gate, assistant.NewAssembler(a.Renderer, logger), a.cache, cfg.Cache.TTL, logger)

	a.Ingestor = ingest.NewIngestor(ingestinfra.NewSourceLoader(cfg.Ingest.Workers, logger), ingest.NewCleaner(logger), a.Store, logger)
	if cfg.Export.Enabled {
		job, err := a.exportJob()
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Ingestor.WithExport(a.Exporter, job)
	}

	return a, nil
}

// Sources chemins des fichiers sources configurés
func (a *App) Sources() ingestdomain.Sources {
	return ingestdomain.Sources{
		Products: a.Config.Sources.Products,
		Vendors:  a.Config.Sources.Vendors,
		Sales:    a.Config.Sources.Sales,
	}
}

// Ingest lit, nettoie, persiste et exporte les sources puis publie l'instantané
func (a *App) Ingest(ctx context.Context) (*ingest.Report, error) {
	report, err := a.Ingestor.Run(ctx, a.Sources())
	if err != nil {
		return nil, err
	}
	snap := a.Gate.Publish(report.Dataset)
	a.Logger.Info("snapshot published", "version", snap.Version, "run", report.RunID)
	return report, nil
}

// LoadStored publie l'instantané déjà persisté, sans relire les sources
func (a *App) LoadStored(ctx context.Context) error {
	ds, err := a.Store.LoadCleanTables(ctx)
	if err != nil {
		return err
	}
	a.Gate.Publish(ds)
	return nil
}

// LoadOrIngest préfère l'instantané persisté et ingère les sources à défaut
func (a *App) LoadOrIngest(ctx context.Context) error {
	err := a.LoadStored(ctx)
	if errors.Is(err, salesinfra.ErrNoCleanData) {
		_, err = a.Ingest(ctx)
	}
	return err
}

// Close libère la base et le cache
func (a *App) Close() error {
	if a.cache != nil {
		a.cache.Close()
	}
	return a.DB.Close()
}

func (a *App) exportJob() (*exportdomain.ExportJob, error) {
	formats := make([]exportdomain.ExportFormat, 0, len(a.Config.Export.Formats))
	for _, s := range a.Config.Export.Formats {
		f, err := exportdomain.ParseFormat(s)
		if err != nil {
			return nil, fmt.Errorf("export.formats: %w", err)
		}
		formats = append(formats, f)
	}
	return exportdomain.NewExportJob(a.Config.Export.Dir, formats...)
}
