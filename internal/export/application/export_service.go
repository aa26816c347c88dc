package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"chatvendas/internal/export/domain"
	"chatvendas/internal/export/infrastructure"
	salesdomain "chatvendas/internal/sales/domain"
	sharedinfra "chatvendas/internal/shared/infrastructure"
)

// ExportService écrit l'instantané nettoyé en CSV, XLSX et Parquet
type ExportService struct {
	workers int
	logger  *slog.Logger
}

// NewExportService crée le service; workers <= 0 = un worker par format
func NewExportService(workers int, logger *slog.Logger) *ExportService {
	if workers <= 0 {
		workers = len(domain.Formats)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExportService{workers: workers, logger: logger}
}

// ============================================================================
// EXPORT DE L'INSTANTANÉ
//
// Une tâche par couple (table, format) soumise au worker pool. Chaque fichier
// est d'abord écrit en mémoire puis posé par renommage: un lecteur ne voit
// jamais de fichier tronqué, et une tâche en échec n'écrase pas l'export
// précédent.
// ============================================================================

// Export écrit <table>_limpo.<ext> pour chaque table et format du job et
// retourne les chemins écrits, triés dans l'ordre tables puis formats
func (s *ExportService) Export(ctx context.Context, ds *salesdomain.Dataset, job *domain.ExportJob) ([]string, error) {
	start := time.Now()
	if err := os.MkdirAll(job.Dir(), 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	products := domain.ProductRows(ds)
	vendors := domain.VendorRows(ds)
	sales := domain.SaleRows(ds)

	wp := sharedinfra.NewWorkerPool(ctx, s.workers)
	wp.Start()

	var mu sync.Mutex
	written := make(map[string]struct{})

	for _, table := range domain.Tables {
		for _, format := range job.Formats() {
			path := filepath.Join(job.Dir(), table.FileName(format))
			encode := func(w io.Writer) error {
				switch table {
				case domain.TableProducts:
					return infrastructure.Write(w, format, string(table), products)
				case domain.TableVendors:
					return infrastructure.Write(w, format, string(table), vendors)
				default:
					return infrastructure.Write(w, format, string(table), sales)
				}
			}
			err := wp.Submit(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := writeFileAtomic(path, encode); err != nil {
					return fmt.Errorf("export %s: %w", filepath.Base(path), err)
				}
				mu.Lock()
				written[path] = struct{}{}
				mu.Unlock()
				return nil
			})
			if err != nil {
				wp.Stop()
				return nil, err
			}
		}
	}

	if err := wp.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(written))
	for _, table := range domain.Tables {
		for _, format := range job.Formats() {
			p := filepath.Join(job.Dir(), table.FileName(format))
			if _, ok := written[p]; ok {
				paths = append(paths, p)
			}
		}
	}

	s.logger.Info("snapshot exported",
		"dir", job.Dir(), "files", len(paths), "sales", len(sales), "duration", time.Since(start))
	return paths, nil
}

// EncodeSales écrit la table des ventes dénormalisée dans w
func (s *ExportService) EncodeSales(w io.Writer, ds *salesdomain.Dataset, format domain.ExportFormat) error {
	return infrastructure.Write(w, format, string(domain.TableSales), domain.SaleRows(ds))
}

func writeFileAtomic(path string, encode func(io.Writer) error) error {
	buf := bytes.NewBuffer(make([]byte, 0, 64*1024))
	if err := encode(buf); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
