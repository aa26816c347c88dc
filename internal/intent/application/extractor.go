package application

import (
	"regexp"
	"strconv"
	"strings"

	"chatvendas/internal/intent/domain"
	salesdomain "chatvendas/internal/sales/domain"
	shareddomain "chatvendas/internal/shared/domain"
	"chatvendas/internal/shared/textnorm"
)

// Motifs appliqués au texte normalisé (minuscules, sans accents, sans ponctuation)
var (
	reProductID   = regexp.MustCompile(`\bprodutos?\s+(?:id\s+|n\s+|numero\s+)?(\d+)\b`)
	reVendorID    = regexp.MustCompile(`\bvendedor(?:es)?\s+(?:id\s+|n\s+|numero\s+)?(\d+)\b`)
	reSaleID      = regexp.MustCompile(`\bvendas?\s+(?:id\s+|n\s+|numero\s+)?(\d+)\b`)
	reCategory    = regexp.MustCompile(`\bcategoria\s+([a-z0-9 ]+?)(?:\s+(?:no\s+|do\s+|em\s+|de\s+)?ano\b|\s+(?:em|de)\s+\d{4}\b|\s+(?:top|para|com|por)\b|$)`)
	reYear        = regexp.MustCompile(`\bano(?:\s+de)?\s+(\d{4})\b|\bem\s+(\d{4})\b`)
	reTopProducts = regexp.MustCompile(`\b(\d+)\s+(?:melhores\s+|maiores\s+)?produtos\b`)
	reTopVendors  = regexp.MustCompile(`\b(\d+)\s+(?:melhores\s+|maiores\s+)?vendedores\b`)
	reTopBare     = regexp.MustCompile(`\btop\s+(\d+)\b`)
	reMonths      = regexp.MustCompile(`\b(\d+)\s+mes(?:es)?\b`)
	reQuarters    = regexp.MustCompile(`\b(\d+)\s+trimestres?\b`)
	reDigits      = regexp.MustCompile(`^\d+$`)
	rePunct       = regexp.MustCompile(`[^a-z0-9$ ]+`)
)

var (
	forecastKeywords = []string{"prever", "previsao", "previsoes", "projecao", "projetar", "projecoes", "tendencia"}
	topKeywords      = []string{"top", "melhor", "melhores", "mais vendido", "mais vendidos", "ranking", "maiores", "crescimento"}
	regionKeywords   = []string{"regiao", "regioes", "regional"}
	totalKeywords    = []string{"total", "totais", "faturamento", "soma"}
	quantityKeywords = []string{"quantidade", "quantidades", "unidades", "qtd"}
	valueKeywords    = []string{"valor", "valores", "faturamento", "receita", "reais"}
	quarterKeywords  = []string{"trimestre", "trimestres", "trimestral"}
)

// Extractor transforme une question libre en Filter.
// Sans état, utilisable en concurrence.
type Extractor struct{}

// NewExtractor crée un extracteur
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Normalize prépare le texte: minuscules, sans accents, ponctuation -> espace
func Normalize(text string) string {
	folded := textnorm.Fold(text)
	return textnorm.CollapseSpaces(rePunct.ReplaceAllString(folded, " "))
}

// Extract analyse le texte et résout l'action selon la priorité:
// prévision > détail par id > catégorie+année > top N > régions > totaux > non reconnu
func (e *Extractor) Extract(text string) domain.Filter {
	t := Normalize(text)
	f := domain.Filter{
		Text:        t,
		TopN:        domain.DefaultTopN,
		Horizon:     domain.DefaultHorizonMonths,
		Granularity: shareddomain.GranularityMonth,
	}

	f.Entity = detectEntity(t)
	f.EntityID = entityID(t, f.Entity)

	if m := reCategory.FindStringSubmatch(t); m != nil {
		f.Category = strings.TrimSpace(m[1])
		if reDigits.MatchString(f.Category) {
			n, _ := strconv.Atoi(f.Category)
			f.CategoryNumber = &n
		}
	}
	if m := reYear.FindStringSubmatch(t); m != nil {
		y := m[1]
		if y == "" {
			y = m[2]
		}
		f.Year, _ = strconv.Atoi(y)
	}

	if n, ok := firstPositive(t, reTopProducts, reTopVendors, reTopBare); ok {
		f.TopN, f.TopNSet = n, true
	}

	switch {
	case containsAny(t, quarterKeywords):
		f.Granularity = shareddomain.GranularityQuarter
		f.Horizon = 1
		if n, ok := firstPositive(t, reQuarters); ok {
			f.Horizon, f.HorizonSet = n, true
		}
	default:
		if n, ok := firstPositive(t, reMonths); ok {
			f.Horizon, f.HorizonSet = n, true
		}
	}

	switch {
	case containsAny(t, quantityKeywords):
		f.Metric = salesdomain.MetricQuantity
	case containsAny(t, valueKeywords):
		f.Metric = salesdomain.MetricValue
	}

	f.Action = resolveAction(t, f)
	return f
}

func resolveAction(t string, f domain.Filter) domain.Action {
	hasForecast := containsAny(t, forecastKeywords)
	switch {
	case hasForecast && f.HasEntityID() && f.Entity != domain.EntitySale:
		return domain.ActionForecast
	case f.HasEntityID():
		return domain.ActionDetail
	case f.HasCategory() && f.Year > 0:
		return domain.ActionTop
	case containsAny(t, topKeywords) || f.TopNSet:
		return domain.ActionTop
	case containsAny(t, regionKeywords):
		return domain.ActionRegionBreakdown
	case containsAny(t, totalKeywords):
		return domain.ActionTotal
	case f.HasCategory():
		return domain.ActionTop
	case f.Entity == domain.EntityProduct || f.Entity == domain.EntityVendor:
		return domain.ActionTop
	case f.Entity == domain.EntitySale || hasForecast:
		return domain.ActionTotal
	}
	return domain.ActionUnrecognized
}

// detectEntity: "produto" > "vendedor" > "venda"/"previsao"
func detectEntity(t string) domain.Entity {
	switch {
	case containsWordPrefix(t, "produto"):
		return domain.EntityProduct
	case containsWordPrefix(t, "vendedor"):
		return domain.EntityVendor
	case containsWordPrefix(t, "venda"), containsWordPrefix(t, "previsao"):
		return domain.EntitySale
	}
	return domain.EntityNone
}

func entityID(t string, e domain.Entity) int64 {
	var re *regexp.Regexp
	switch e {
	case domain.EntityProduct:
		re = reProductID
	case domain.EntityVendor:
		re = reVendorID
	case domain.EntitySale:
		re = reSaleID
	default:
		return 0
	}
	m := re.FindStringSubmatch(t)
	if m == nil {
		return 0
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func firstPositive(t string, patterns ...*regexp.Regexp) (int, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(t); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// containsAny cherche des mots entiers (ou expressions) dans t
func containsAny(t string, keywords []string) bool {
	padded := " " + t + " "
	for _, k := range keywords {
		if strings.Contains(padded, " "+k+" ") {
			return true
		}
	}
	return false
}

// containsWordPrefix vrai si un mot de t commence par prefix ("produtos" pour "produto")
func containsWordPrefix(t, prefix string) bool {
	for _, w := range strings.Fields(t) {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}
