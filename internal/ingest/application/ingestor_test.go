package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	exportdomain "chatvendas/internal/export/domain"
	"chatvendas/internal/ingest/domain"
	salesdomain "chatvendas/internal/sales/domain"
	"chatvendas/internal/testhelpers"
)

type fakeLoader struct {
	tables map[domain.TableName]*domain.RawTable
	err    error
}

func (l fakeLoader) Load(context.Context, domain.Sources) (map[domain.TableName]*domain.RawTable, error) {
	return l.tables, l.err
}

type fakeStore struct {
	stored *salesdomain.Dataset
	err    error
}

func (s *fakeStore) StoreCleanTables(_ context.Context, ds *salesdomain.Dataset, _ *domain.AuditLog) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.stored = ds
	return "run-1", nil
}

type fakeExporter struct {
	calls int
}

func (e *fakeExporter) Export(_ context.Context, _ *salesdomain.Dataset, job *exportdomain.ExportJob) ([]string, error) {
	e.calls++
	return []string{job.Dir() + "/vendas_limpo.csv"}, nil
}

func sampleTables() map[domain.TableName]*domain.RawTable {
	return map[domain.TableName]*domain.RawTable{
		domain.TableProducts: rawProducts([]string{"1", "Caneta", "escritorio", "10"}),
		domain.TableVendors:  rawVendors([]string{"1", "Ana", "Sul"}),
		domain.TableSales: rawSales(
			[]string{"1", "1", "1", "5", "2023-01-10", "10", "50"},
			[]string{"2", "99", "1", "1", "2023-01-11", "10", "10"},
		),
	}
}

func TestIngestor_Run(t *testing.T) {
	store := &fakeStore{}
	exporter := &fakeExporter{}
	job, err := exportdomain.NewExportJob("out", exportdomain.ExportFormatCSV)
	require.NoError(t, err)

	in := NewIngestor(fakeLoader{tables: sampleTables()}, nil, store, testhelpers.NewTestLogger(t)).
		WithExport(exporter, job)

	report, err := in.Run(context.Background(), domain.Sources{})
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Same(t, report.Dataset, store.stored)
	assert.Len(t, report.Dataset.Sales(), 1)
	assert.Equal(t, 1, report.Audit.Dropped(domain.TableSales))
	assert.Equal(t, 1, exporter.calls)
	assert.Equal(t, []string{"out/vendas_limpo.csv"}, report.Exported)
}

func TestIngestor_Failures(t *testing.T) {
	missing := sampleTables()
	delete(missing, domain.TableVendors)

	tests := []struct {
		name   string
		loader fakeLoader
		store  *fakeStore
		target error
	}{
		{
			name:   "loader error",
			loader: fakeLoader{err: &domain.MissingSourceError{Table: domain.TableSales, Path: "vendas.csv"}},
			store:  &fakeStore{},
			target: domain.ErrMissingSource,
		},
		{
			name:   "table absent after load",
			loader: fakeLoader{tables: missing},
			store:  &fakeStore{},
			target: domain.ErrMissingSource,
		},
		{
			name:   "store error",
			loader: fakeLoader{tables: sampleTables()},
			store:  &fakeStore{err: errors.New("disk full")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewIngestor(tt.loader, nil, tt.store, nil).Run(context.Background(), domain.Sources{})
			require.Error(t, err)
			assert.Nil(t, report)
			assert.Nil(t, tt.store.stored)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}
