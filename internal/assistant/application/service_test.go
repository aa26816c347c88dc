package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsdomain "chatvendas/internal/analytics/domain"
	"chatvendas/internal/assistant/domain"
	chartdomain "chatvendas/internal/chart/domain"
	intentdomain "chatvendas/internal/intent/domain"
	sharedinfra "chatvendas/internal/shared/infrastructure"
	"chatvendas/internal/testhelpers"
)

// fakeRenderer enregistre les demandes de rendu
type fakeRenderer struct {
	mu    sync.Mutex
	specs []chartdomain.Spec
	err   error
}

func (r *fakeRenderer) Render(_ context.Context, spec chartdomain.Spec) (chartdomain.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = append(r.specs, spec)
	if r.err != nil {
		return chartdomain.Artifact{}, r.err
	}
	return chartdomain.Artifact{Name: spec.Name + ".png", URL: "/api/charts/" + spec.Name + ".png"}, nil
}

func (r *fakeRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.specs)
}

func newTestService(t *testing.T, renderer chartdomain.Renderer) (*Service, *Gate, sharedinfra.Cache) {
	t.Helper()
	gate := NewGate()
	cache := sharedinfra.NewShardedCache(4)
	t.Cleanup(cache.Close)
	svc := NewService(gate, NewAssembler(renderer, testhelpers.NewTestLogger(t)), cache, time.Minute, testhelpers.NewTestLogger(t))
	return svc, gate, cache
}

// ============================================================================
// BARRIÈRE
// ============================================================================

func TestService_NotReady(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	resp, err := svc.Answer(context.Background(), "top produtos")
	assert.ErrorIs(t, err, domain.ErrDataNotReady)
	assert.Equal(t, NotReadyMessage, resp.Message)
	assert.NotEmpty(t, resp.Error)
}

func TestGate_PublishReplacesSnapshot(t *testing.T) {
	gate := NewGate()
	assert.False(t, gate.Ready())

	var seen []uint64
	gate.OnPublish(func(s Snapshot) { seen = append(seen, s.Version) })

	first := gate.Publish(testhelpers.SampleDataset(t))
	second := gate.Publish(testhelpers.SampleDataset(t))

	assert.True(t, gate.Ready())
	assert.Equal(t, []uint64{1, 2}, seen)
	cur, err := gate.Current()
	require.NoError(t, err)
	assert.Equal(t, second.Version, cur.Version)
	assert.NotSame(t, first.Dataset, cur.Dataset)
}

// ============================================================================
// RÉPONSES
// ============================================================================

func TestService_Answers(t *testing.T) {
	renderer := &fakeRenderer{}
	svc, gate, _ := newTestService(t, renderer)
	gate.Publish(testhelpers.SampleDataset(t))

	tests := []struct {
		question string
		action   intentdomain.Action
		message  string
		chart    bool
	}{
		{"Qual a previsão de vendas do produto 1 para os próximos 2 meses?", intentdomain.ActionForecast,
			"Previsão de vendas do produto 1 para os próximos 2 meses:", true},
		{"previsão do vendedor 2", intentdomain.ActionForecast,
			"Potencial de crescimento médio do vendedor Bruno:", false},
		{"top 2 produtos da categoria eletronicos no ano 2023", intentdomain.ActionTop,
			"Top 2 produtos da categoria eletronicos em 2023:", true},
		{"top vendedores", intentdomain.ActionTop, "Top vendedores:", true},
		{"top 10 produtos", intentdomain.ActionTop, "Top produtos mais vendidos:", true},
		{"vendas por região", intentdomain.ActionRegionBreakdown, "Vendas por região:", true},
		{"total de vendas", intentdomain.ActionTotal, "Vendas totais por produto:", true},
		{"faturamento total por vendedor", intentdomain.ActionTotal, "Vendas totais por vendedor:", true},
		{"produto 1", intentdomain.ActionDetail,
			"Vendas do produto Notebook (id 1): 10 unidades, R$ 1.000,00 em 4 vendas.", false},
		{"qual o clima hoje", intentdomain.ActionUnrecognized, domain.FallbackMessage, false},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			resp, err := svc.Answer(context.Background(), tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.question, resp.Question)
			assert.Equal(t, tt.action, resp.Action)
			assert.Equal(t, tt.message, resp.Message)
			assert.Empty(t, resp.Error)
			if tt.chart {
				require.NotNil(t, resp.Chart)
				require.NotNil(t, resp.Chart.Artifact)
				assert.Len(t, resp.Chart.Values, len(resp.Chart.Labels))
			} else {
				assert.Nil(t, resp.Chart)
			}
		})
	}
}

func TestService_NotFound(t *testing.T) {
	svc, gate, _ := newTestService(t, nil)
	gate.Publish(testhelpers.SampleDataset(t))

	tests := []struct {
		question string
		message  string
	}{
		{"previsão produto 42", "Produto não encontrado ou sem histórico"},
		{"previsão vendedor 42", "Vendedor não encontrado"},
		{"produto 42", "Produto não encontrado"},
		{"venda 42", "Venda não encontrada"},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			resp, err := svc.Answer(context.Background(), tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.message, resp.Message)
			assert.Contains(t, resp.Error, analyticsdomain.ErrNotFound.Error())
			assert.Nil(t, resp.Data)
		})
	}
}

func TestService_RenderFailureKeepsDescriptor(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("disk full")}
	svc, gate, _ := newTestService(t, renderer)
	gate.Publish(testhelpers.SampleDataset(t))

	resp, err := svc.Answer(context.Background(), "previsão produto 1")
	require.NoError(t, err)

	require.NotNil(t, resp.Chart)
	assert.Nil(t, resp.Chart.Artifact)
	assert.Equal(t, chartdomain.KindLine, resp.Chart.Type)
	fc, ok := resp.Data.(*analyticsdomain.Forecast)
	require.True(t, ok)
	assert.Len(t, fc.Predictions, intentdomain.DefaultHorizonMonths)
	assert.Empty(t, resp.Error)
}

// ============================================================================
// CACHE
// ============================================================================

func TestService_CachesUntilRepublish(t *testing.T) {
	renderer := &fakeRenderer{}
	svc, gate, cache := newTestService(t, renderer)
	gate.Publish(testhelpers.SampleDataset(t))

	_, err := svc.Answer(context.Background(), "Top Vendedores")
	require.NoError(t, err)
	_, err = svc.Answer(context.Background(), "top vendedores!")
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.count())
	assert.Equal(t, 1, cache.Len())

	gate.Publish(testhelpers.SampleDataset(t))
	assert.Zero(t, cache.Len())

	_, err = svc.Answer(context.Background(), "top vendedores")
	require.NoError(t, err)
	assert.Equal(t, 2, renderer.count())
}

func TestService_ConcurrentAnswers(t *testing.T) {
	svc, gate, _ := newTestService(t, nil)
	gate.Publish(testhelpers.SampleDataset(t))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				gate.Publish(testhelpers.SampleDataset(t))
			}
			resp, err := svc.Answer(context.Background(), "vendas por região")
			assert.NoError(t, err)
			assert.Equal(t, intentdomain.ActionRegionBreakdown, resp.Action)
		}(i)
	}
	wg.Wait()
}

func BenchmarkService_Answer(b *testing.B) {
	gate := NewGate()
	gate.Publish(testhelpers.SampleDataset(b))
	svc := NewService(gate, NewAssembler(nil, nil), nil, 0, nil)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := svc.Answer(ctx, "top 3 produtos da categoria eletronicos no ano 2023"); err != nil {
			b.Fatal(err)
		}
	}
}
