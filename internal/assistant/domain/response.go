package domain

import (
	"errors"

	analyticsdomain "chatvendas/internal/analytics/domain"
	chartdomain "chatvendas/internal/chart/domain"
	intentdomain "chatvendas/internal/intent/domain"
)

// ErrDataNotReady aucune donnée nettoyée n'est encore publiée
var ErrDataNotReady = errors.New("data not ready")

// FallbackMessage réponse aux questions non reconnues
const FallbackMessage = "Desculpe, não entendi sua pergunta. Pergunte sobre produtos, vendedores ou vendas."

// Chart descripteur de graphique joint à une réponse
// Artifact est absent si le rendu a échoué ou est désactivé.
type Chart struct {
	Type     chartdomain.Kind      `json:"tipo"`
	Labels   []string              `json:"labels"`
	Values   []float64             `json:"values"`
	Artifact *chartdomain.Artifact `json:"artefato,omitempty"`
}

// Response contrat de réponse uniforme d'une question
type Response struct {
	Question string              `json:"pergunta"`
	Message  string              `json:"resposta"`
	Action   intentdomain.Action `json:"acao"`
	Data     any                 `json:"dados,omitempty"`
	Chart    *Chart              `json:"grafico,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Result sortie du moteur pour un Filter; un seul champ de données est renseigné
type Result struct {
	Filter       intentdomain.Filter
	Total        *analyticsdomain.EntityTotal
	Regions      []analyticsdomain.RegionTotal
	Products     []analyticsdomain.ProductTotal
	VendorTotals []analyticsdomain.VendorTotal
	Growth       []analyticsdomain.VendorGrowth
	Forecast     *analyticsdomain.Forecast
	Err          error
}
