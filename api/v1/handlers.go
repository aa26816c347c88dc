package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	analyticsinfra "chatvendas/internal/analytics/infrastructure"
	assistant "chatvendas/internal/assistant/application"
	assistantdomain "chatvendas/internal/assistant/domain"
	chartdomain "chatvendas/internal/chart/domain"
	exportapp "chatvendas/internal/export/application"
	exportdomain "chatvendas/internal/export/domain"
)

// maxQuestionBytes taille maximale du corps de POST /api/chat
const maxQuestionBytes = 16 << 10

// Handlers handlers HTTP de l'assistant
type Handlers struct {
	service  *assistant.Service
	gate     *assistant.Gate
	stats    *analyticsinfra.StatsQueryRepository
	exporter *exportapp.ExportService
	chartDir string
	logger   *slog.Logger
}

// NewHandlers crée les handlers; stats nil = santé sans résumé SQL,
// chartDir vide = images non servies
func NewHandlers(
	service *assistant.Service,
	gate *assistant.Gate,
	stats *analyticsinfra.StatsQueryRepository,
	exporter *exportapp.ExportService,
	chartDir string,
	logger *slog.Logger,
) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		service:  service,
		gate:     gate,
		stats:    stats,
		exporter: exporter,
		chartDir: chartDir,
		logger:   logger,
	}
}

// Routes monte les routes sous /api
func (h *Handlers) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.Chat)
		r.Get("/health", h.Health)
		r.Get("/charts/{name}", h.Chart)
		r.Get("/export/{format}", h.Export)
	})
}

// chatRequest accepte "texto" et, à défaut, "text"
type chatRequest struct {
	Texto string `json:"texto"`
	Text  string `json:"text"`
}

// Chat handler pour POST /api/chat
// Introuvable: 200 avec "error"; données non prêtes: 503.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQuestionBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	text := req.Texto
	if strings.TrimSpace(text) == "" {
		text = req.Text
	}
	if strings.TrimSpace(text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": `field "texto" is required`})
		return
	}

	resp, err := h.service.Answer(r.Context(), text)
	switch {
	case errors.Is(err, assistantdomain.ErrDataNotReady):
		writeJSON(w, http.StatusServiceUnavailable, resp)
	case err != nil:
		h.logger.Warn("chat request aborted", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

// Health handler pour GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok", "ready": h.gate.Ready()}
	if snap, err := h.gate.Current(); err == nil {
		body["version"] = snap.Version
	}
	if h.stats != nil {
		summary, err := h.stats.GetSummary(r.Context())
		if err != nil {
			h.logger.Error("health summary failed", "error", err)
			body["status"] = "degraded"
		} else {
			body["resumo"] = summary
		}
	}

	status := http.StatusOK
	if !h.gate.Ready() {
		status = http.StatusServiceUnavailable
		body["status"] = "loading"
	}
	writeJSON(w, status, body)
}

// Chart handler pour GET /api/charts/{name}
func (h *Handlers) Chart(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "name"), ".png")
	if h.chartDir == "" || !chartdomain.ValidName(name) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, filepath.Join(h.chartDir, name+".png"))
}

// Export handler pour GET /api/export/{format}
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	format, err := exportdomain.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	snap, err := h.gate.Current()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+exportdomain.TableSales.FileName(format))
	if err := h.exporter.EncodeSales(w, snap.Dataset, format); err != nil {
		// en-têtes déjà envoyés si l'encodeur a commencé à écrire
		h.logger.Error("export failed", "format", format, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Debug("write response failed", "error", err)
	}
}
