package infrastructure

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatvendas/internal/chart/domain"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestPlotRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	r, err := NewPlotRenderer(filepath.Join(dir, "charts"), nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		spec domain.Spec
	}{
		{
			name: "bar",
			spec: domain.Spec{Name: "top_produtos", Kind: domain.KindBar, Title: "Top produtos",
				Labels: []string{"A", "B", "C"}, Values: []float64{3, 2, 1}},
		},
		{
			name: "line with forecast",
			spec: domain.Spec{Name: "previsao_produto_7", Kind: domain.KindLine, Title: "Previsão",
				Labels: []string{"2023-01", "2023-02", "2023-03", "2023-04"}, Values: []float64{1, 2, 3, 4}, Projected: 2},
		},
		{
			name: "bar with forecast",
			spec: domain.Spec{Name: "previsao_trimestre", Kind: domain.KindBar,
				Labels: []string{"2023-T1", "2023-T2"}, Values: []float64{5, 6}, Projected: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, err := r.Render(context.Background(), tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.spec.Name+".png", art.Name)
			assert.Equal(t, URLPrefix+art.Name, art.URL)

			data, err := os.ReadFile(art.Path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, pngMagic))
		})
	}

	// aucun fichier temporaire laissé
	entries, err := os.ReadDir(r.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, len(tests))
}

func TestPlotRenderer_InvalidSpec(t *testing.T) {
	r, err := NewPlotRenderer(t.TempDir(), nil)
	require.NoError(t, err)

	bad := []domain.Spec{
		{Name: "../escape", Kind: domain.KindBar, Labels: []string{"a"}, Values: []float64{1}},
		{Name: "pie", Kind: "pie", Labels: []string{"a"}, Values: []float64{1}},
		{Name: "misaligned", Kind: domain.KindLine, Labels: []string{"a", "b"}, Values: []float64{1}},
		{Name: "projected", Kind: domain.KindLine, Labels: []string{"a"}, Values: []float64{1}, Projected: 2},
	}
	for _, spec := range bad {
		_, err := r.Render(context.Background(), spec)
		assert.ErrorIs(t, err, domain.ErrInvalidSpec, spec.Name)
	}
}

func TestPlotRenderer_CancelledContext(t *testing.T) {
	r, err := NewPlotRenderer(t.TempDir(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Render(ctx, domain.Spec{Name: "x", Kind: domain.KindBar, Labels: []string{"a"}, Values: []float64{1}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNopRenderer(t *testing.T) {
	_, err := NopRenderer{}.Render(context.Background(),
		domain.Spec{Name: "x", Kind: domain.KindBar, Labels: []string{"a"}, Values: []float64{1}})
	assert.ErrorIs(t, err, ErrRenderingDisabled)
}
