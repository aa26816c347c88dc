package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatvendas/database"
	assistantdomain "chatvendas/internal/assistant/domain"
	"chatvendas/internal/config"
	intentdomain "chatvendas/internal/intent/domain"
	salesinfra "chatvendas/internal/sales/infrastructure"
	"chatvendas/internal/testhelpers"
)

// newTestConfig configuration complète pointant vers un répertoire temporaire
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	opts := database.DemoOptions{Products: 6, Vendors: 4, Sales: 120, Months: 12, Seed: 3}
	src, err := database.SeedDemoSources(filepath.Join(dir, "fontes"), opts)
	require.NoError(t, err)

	return &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: "file:" + filepath.Join(dir, "test.db") + "?_pragma=foreign_keys(1)"},
		Sources:  config.SourcesConfig{Products: src.Products, Vendors: src.Vendors, Sales: src.Sales},
		Export:   config.ExportConfig{Dir: filepath.Join(dir, "limpos"), Enabled: true, Formats: []string{"csv", "parquet"}},
		Charts:   config.ChartsConfig{Dir: filepath.Join(dir, "charts")},
		Cache:    config.CacheConfig{Shards: 4},
		Ingest:   config.IngestConfig{Workers: 2},
	}
}

func TestApp_IngestThenAnswer(t *testing.T) {
	cfg := newTestConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, testhelpers.NewTestLogger(t))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Service.Answer(ctx, "top produtos")
	assert.ErrorIs(t, err, assistantdomain.ErrDataNotReady)

	report, err := a.Ingest(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Len(t, report.Exported, 3*2)
	assert.Positive(t, report.Audit.Dropped("sales"))

	resp, err := a.Service.Answer(ctx, "vendas por região")
	require.NoError(t, err)
	assert.Equal(t, intentdomain.ActionRegionBreakdown, resp.Action)
	require.NotNil(t, resp.Chart)
	require.NotNil(t, resp.Chart.Artifact)
	_, err = os.Stat(resp.Chart.Artifact.Path)
	assert.NoError(t, err)

	summary, err := a.Stats.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(report.Dataset.Sales()), summary.Sales)
}

func TestApp_LoadOrIngest(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Export.Enabled = false
	ctx := context.Background()

	first, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, first.LoadStored(ctx), salesinfra.ErrNoCleanData)
	require.NoError(t, first.LoadOrIngest(ctx))
	assert.True(t, first.Gate.Ready())
	require.NoError(t, first.Close())

	// les sources disparues, l'instantané persisté suffit
	require.NoError(t, os.Remove(cfg.Sources.Sales))

	second, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.LoadOrIngest(ctx))
	assert.True(t, second.Gate.Ready())
}

func TestApp_InvalidExportFormat(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Export.Formats = []string{"pdf"}

	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "export.formats")
}
