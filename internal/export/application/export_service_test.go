package application

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatvendas/internal/export/domain"
	"chatvendas/internal/testhelpers"
)

func TestExportService_Export(t *testing.T) {
	ds := testhelpers.SampleDataset(t)
	svc := NewExportService(2, testhelpers.NewTestLogger(t))

	dir := filepath.Join(t.TempDir(), "limpos")
	job, err := domain.NewExportJob(dir, domain.Formats...)
	require.NoError(t, err)

	paths, err := svc.Export(context.Background(), ds, job)
	require.NoError(t, err)
	require.Len(t, paths, len(domain.Tables)*len(domain.Formats))
	assert.Equal(t, filepath.Join(dir, "produtos_limpo.csv"), paths[0])

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), p)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(paths))
}

func TestExportService_CancelledContext(t *testing.T) {
	ds := testhelpers.SampleDataset(t)
	svc := NewExportService(1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job, err := domain.NewExportJob(t.TempDir(), domain.ExportFormatCSV)
	require.NoError(t, err)

	_, err = svc.Export(ctx, ds, job)
	assert.Error(t, err)
}

func TestExportService_EncodeSales(t *testing.T) {
	ds := testhelpers.SampleDataset(t)
	svc := NewExportService(0, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.EncodeSales(&buf, ds, domain.ExportFormatCSV))
	assert.Contains(t, buf.String(), "id_venda,data_venda")
	assert.Contains(t, buf.String(), "Notebook")
}

func BenchmarkExportService_Export(b *testing.B) {
	ds := testhelpers.SampleDataset(b)
	svc := NewExportService(3, nil)
	job, err := domain.NewExportJob(b.TempDir(), domain.Formats...)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := svc.Export(ctx, ds, job); err != nil {
			b.Fatal(err)
		}
	}
}
