package domain

import (
	salesdomain "chatvendas/internal/sales/domain"
	shareddomain "chatvendas/internal/shared/domain"
)

// Entity sujet principal de la question
type Entity string

const (
	EntityNone    Entity = ""
	EntityProduct Entity = "product"
	EntityVendor  Entity = "vendor"
	EntitySale    Entity = "sale"
)

// Action opération analytique demandée
type Action string

const (
	ActionUnrecognized    Action = "unrecognized"
	ActionForecast        Action = "forecast"
	ActionDetail          Action = "detail"
	ActionTop             Action = "top"
	ActionRegionBreakdown Action = "region_breakdown"
	ActionTotal           Action = "total"
)

const (
	// DefaultTopN taille de classement par défaut
	DefaultTopN = 5
	// DefaultVendorTopN taille du classement des vendeurs quand aucune n'est demandée
	DefaultVendorTopN = 3
	// DefaultHorizonMonths horizon de prévision par défaut
	DefaultHorizonMonths = 3
)

// Filter intention extraite d'une question libre
//
// Les champs optionnels valent zéro quand ils sont absents du texte:
// EntityID 0, Year 0, Category "". TopN et Horizon portent toujours une
// valeur (défaut compris), TopNSet/HorizonSet indiquent si elle vient du texte.
type Filter struct {
	Text           string
	Entity         Entity
	EntityID       int64
	Category       string
	CategoryNumber *int
	Year           int
	TopN           int
	TopNSet        bool
	Horizon        int
	HorizonSet     bool
	Granularity    shareddomain.Granularity
	Metric         salesdomain.Metric
	Action         Action
}

// HasEntityID vrai si la question vise un enregistrement précis
func (f Filter) HasEntityID() bool {
	return f.EntityID > 0
}

// HasCategory vrai si une catégorie a été reconnue
func (f Filter) HasCategory() bool {
	return f.Category != ""
}

// Recognized vrai si une action a pu être déterminée
func (f Filter) Recognized() bool {
	return f.Action != "" && f.Action != ActionUnrecognized
}

// MetricOr retourne la métrique demandée ou def si le texte n'en précise aucune
func (f Filter) MetricOr(def salesdomain.Metric) salesdomain.Metric {
	if f.Metric == "" {
		return def
	}
	return f.Metric
}

// VendorTopN taille du classement des vendeurs
func (f Filter) VendorTopN() int {
	if f.TopNSet {
		return f.TopN
	}
	return DefaultVendorTopN
}
