package infrastructure

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chatvendas/internal/ingest/domain"
	sharedinfra "chatvendas/internal/shared/infrastructure"
)

// SourceLoader lit les trois sources en parallèle via le worker pool
type SourceLoader struct {
	workers int
	logger  *slog.Logger
}

// NewSourceLoader crée un loader; workers <= 0 = un worker par table
func NewSourceLoader(workers int, logger *slog.Logger) *SourceLoader {
	if workers <= 0 {
		workers = len(domain.Tables)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SourceLoader{workers: workers, logger: logger}
}

// Load lit les trois fichiers; la première source manquante (dans l'ordre
// produits, vendeurs, ventes) est retournée comme erreur
func (l *SourceLoader) Load(ctx context.Context, src domain.Sources) (map[domain.TableName]*domain.RawTable, error) {
	wp := sharedinfra.NewWorkerPool(ctx, l.workers)
	wp.Start()

	var mu sync.Mutex
	tables := make(map[domain.TableName]*domain.RawTable, len(domain.Tables))
	failures := make(map[domain.TableName]error)

	for _, name := range domain.Tables {
		name := name
		path := src.Path(name)
		err := wp.Submit(func(ctx context.Context) error {
			start := time.Now()
			t, err := ReadTable(name, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[name] = err
				return err
			}
			tables[name] = t
			l.logger.Debug("source read",
				"table", name, "path", path, "rows", len(t.Rows), "duration", time.Since(start))
			return nil
		})
		if err != nil {
			wp.Stop()
			return nil, err
		}
	}

	if err := wp.Wait(); err != nil {
		for _, name := range domain.Tables {
			if f, ok := failures[name]; ok {
				return nil, f
			}
		}
		return nil, err
	}
	return tables, nil
}
