package application

import (
	"context"
	"log/slog"
	"time"

	analytics "chatvendas/internal/analytics/application"
	analyticsdomain "chatvendas/internal/analytics/domain"
	"chatvendas/internal/assistant/domain"
	catalogdomain "chatvendas/internal/catalog/domain"
	intent "chatvendas/internal/intent/application"
	intentdomain "chatvendas/internal/intent/domain"
	salesdomain "chatvendas/internal/sales/domain"
	sharedinfra "chatvendas/internal/shared/infrastructure"
)

// NotReadyMessage réponse tant que l'ingestion n'est pas terminée
const NotReadyMessage = "Os dados ainda estão sendo carregados. Tente novamente em instantes."

// DefaultAnswerTTL durée de vie d'une réponse en cache
const DefaultAnswerTTL = 5 * time.Minute

// Service répond aux questions libres sur l'instantané publié
type Service struct {
	extractor *intent.Extractor
	gate      *Gate
	assembler *Assembler
	cache     sharedinfra.Cache
	ttl       time.Duration
	logger    *slog.Logger
}

// NewService crée le service de questions; cache nil = pas de cache
// Chaque publication sur gate vide le cache.
func NewService(gate *Gate, assembler *Assembler, cache sharedinfra.Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if ttl <= 0 {
		ttl = DefaultAnswerTTL
	}
	s := &Service{
		extractor: intent.NewExtractor(),
		gate:      gate,
		assembler: assembler,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
	if cache != nil {
		gate.OnPublish(func(snap Snapshot) {
			cache.Clear()
			logger.Debug("answer cache cleared", "version", snap.Version)
		})
	}
	return s
}

// Answer traite une question
//
// Seules l'absence de données (ErrDataNotReady) et l'annulation du contexte
// sont retournées en erreur; un enregistrement introuvable est une réponse
// normale avec le champ Error renseigné.
func (s *Service) Answer(ctx context.Context, text string) (domain.Response, error) {
	if err := ctx.Err(); err != nil {
		return domain.Response{Question: text, Error: err.Error()}, err
	}

	snap, err := s.gate.Current()
	if err != nil {
		return domain.Response{Question: text, Message: NotReadyMessage, Error: err.Error()}, err
	}

	f := s.extractor.Extract(text)

	key := sharedinfra.NewCacheKeyBuilder().
		Add("answer").
		AddInt(int64(snap.Version)).
		Add(f.Text).
		Build()
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			resp := cached.(domain.Response)
			resp.Question = text
			return resp, nil
		}
	}

	start := time.Now()
	res := Compute(snap.Dataset, f)
	resp := s.assembler.Assemble(ctx, f, res)
	resp.Question = text

	s.logger.Info("question answered",
		"action", f.Action, "entity", f.Entity, "entity_id", f.EntityID,
		"version", snap.Version, "error", resp.Error, "duration", time.Since(start))

	if s.cache != nil {
		s.cache.Set(key, resp, s.ttl)
	}
	return resp, nil
}

// Compute exécute l'analyse correspondant à l'action du filtre
func Compute(ds *salesdomain.Dataset, f intentdomain.Filter) domain.Result {
	var res domain.Result

	switch f.Action {
	case intentdomain.ActionForecast:
		if f.Entity == intentdomain.EntityVendor {
			g, err := analytics.VendorGrowthPotential(ds, catalogdomain.VendorID(f.EntityID), f.MetricOr(salesdomain.MetricValue))
			res.Growth, res.Err = []analyticsdomain.VendorGrowth{g}, err
			return res
		}
		res.Forecast, res.Err = analytics.ForecastNextPeriod(ds,
			catalogdomain.ProductID(f.EntityID), f.Horizon, f.Granularity, f.MetricOr(salesdomain.MetricQuantity))

	case intentdomain.ActionDetail:
		t, err := analytics.TotalSales(ds, scopeOf(f.Entity), f.EntityID)
		res.Total, res.Err = &t, err

	case intentdomain.ActionTop:
		switch {
		case f.HasCategory():
			res.Products = analytics.TopProductsByCategoryYear(ds, f.Category, f.Year, f.TopN)
		case f.Entity == intentdomain.EntityVendor:
			res.Growth = analytics.TopVendorsByGrowth(ds, f.VendorTopN(), f.MetricOr(salesdomain.MetricValue))
		default:
			res.Products = analytics.TopProducts(ds, f.TopN, f.MetricOr(salesdomain.MetricQuantity))
		}

	case intentdomain.ActionRegionBreakdown:
		res.Regions = analytics.SalesByRegion(ds)

	case intentdomain.ActionTotal:
		if f.Entity == intentdomain.EntityVendor {
			res.VendorTotals = analytics.TotalsByVendor(ds)
		} else {
			res.Products = analytics.TotalsByProduct(ds, f.MetricOr(salesdomain.MetricQuantity))
		}
	}
	return res
}

func scopeOf(e intentdomain.Entity) analyticsdomain.Scope {
	switch e {
	case intentdomain.EntityVendor:
		return analyticsdomain.ScopeVendor
	case intentdomain.EntitySale:
		return analyticsdomain.ScopeSale
	default:
		return analyticsdomain.ScopeProduct
	}
}
