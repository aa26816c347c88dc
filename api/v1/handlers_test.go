package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsinfra "chatvendas/internal/analytics/infrastructure"
	assistant "chatvendas/internal/assistant/application"
	chartinfra "chatvendas/internal/chart/infrastructure"
	exportapp "chatvendas/internal/export/application"
	salesinfra "chatvendas/internal/sales/infrastructure"
	sharedinfra "chatvendas/internal/shared/infrastructure"
	"chatvendas/internal/testhelpers"
)

type testServer struct {
	router   chi.Router
	gate     *assistant.Gate
	chartDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := testhelpers.NewTestLogger(t)

	db := testhelpers.SetupTestDB(t)
	ds := testhelpers.SampleDataset(t)
	_, err := salesinfra.NewDatasetStore(db, sharedinfra.DialectSQLite, nil).StoreCleanTables(context.Background(), ds, nil)
	require.NoError(t, err)

	chartDir := t.TempDir()
	renderer, err := chartinfra.NewPlotRenderer(chartDir, logger)
	require.NoError(t, err)

	gate := assistant.NewGate()
	svc := assistant.NewService(gate, assistant.NewAssembler(renderer, logger), nil, 0, logger)
	h := NewHandlers(svc, gate, analyticsinfra.NewStatsQueryRepository(db, sharedinfra.DialectSQLite),
		exportapp.NewExportService(1, logger), chartDir, logger)

	r := chi.NewRouter()
	h.Routes(r)
	return &testServer{router: r, gate: gate, chartDir: chartDir}
}

func (s *testServer) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ============================================================================
// CHAT
// ============================================================================

func TestChat_NotReady(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/chat", `{"texto": "top produtos"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])
}

func TestChat_Answers(t *testing.T) {
	s := newTestServer(t)
	s.gate.Publish(testhelpers.SampleDataset(t))

	tests := []struct {
		name    string
		body    string
		status  int
		message string
		isError bool
	}{
		{"texto field", `{"texto": "vendas por região"}`, http.StatusOK, "Vendas por região:", false},
		{"text field", `{"text": "top vendedores"}`, http.StatusOK, "Top vendedores:", false},
		{"not found is 200", `{"texto": "produto 42"}`, http.StatusOK, "Produto não encontrado", true},
		{"empty question", `{"texto": "  "}`, http.StatusBadRequest, "", true},
		{"invalid json", `{texto`, http.StatusBadRequest, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/chat", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			out := decode(t, rec)
			if tt.message != "" {
				assert.Equal(t, tt.message, out["resposta"])
			}
			_, hasErr := out["error"]
			assert.Equal(t, tt.isError, hasErr)
		})
	}
}

func TestChat_ServesRenderedChart(t *testing.T) {
	s := newTestServer(t)
	s.gate.Publish(testhelpers.SampleDataset(t))

	rec := s.do(t, http.MethodPost, "/api/chat", `{"texto": "previsão do produto 1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	chart, ok := out["grafico"].(map[string]any)
	require.True(t, ok)
	artifact, ok := chart["artefato"].(map[string]any)
	require.True(t, ok)
	url, _ := artifact["url"].(string)
	require.Equal(t, "/api/charts/previsao_produto_1.png", url)

	img := s.do(t, http.MethodGet, url, "")
	assert.Equal(t, http.StatusOK, img.Code)
	assert.True(t, bytes.HasPrefix(img.Body.Bytes(), []byte("\x89PNG")))
}

// ============================================================================
// SANTÉ, GRAPHIQUES, EXPORT
// ============================================================================

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "loading", decode(t, rec)["status"])

	s.gate.Publish(testhelpers.SampleDataset(t))
	rec = s.do(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, true, out["ready"])
	summary, ok := out["resumo"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 9, summary["vendas"])
}

func TestChart_RejectsUnknownOrUnsafeNames(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.chartDir, "ok.png"), []byte("\x89PNG"), 0o644))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/charts/ok.png", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/charts/absent.png", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/charts/..%2Fsecret.png", "").Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/api/export/csv", "").Code)

	s.gate.Publish(testhelpers.SampleDataset(t))

	rec := s.do(t, http.MethodGet, "/api/export/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "vendas_limpo.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 1+9)

	rec = s.do(t, http.MethodGet, "/api/export/parquet", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PAR1")))

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/export/pdf", "").Code)
}

func BenchmarkChat(b *testing.B) {
	gate := assistant.NewGate()
	gate.Publish(testhelpers.SampleDataset(b))
	h := NewHandlers(assistant.NewService(gate, assistant.NewAssembler(nil, nil), nil, 0, nil), gate, nil, nil, "", nil)
	r := chi.NewRouter()
	h.Routes(r)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"texto": "top 5 produtos"}`))
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
}
