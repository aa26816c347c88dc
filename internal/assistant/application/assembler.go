package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	analyticsdomain "chatvendas/internal/analytics/domain"
	"chatvendas/internal/assistant/domain"
	chartdomain "chatvendas/internal/chart/domain"
	intentdomain "chatvendas/internal/intent/domain"
	salesdomain "chatvendas/internal/sales/domain"
	shareddomain "chatvendas/internal/shared/domain"
	"chatvendas/internal/shared/textnorm"
)

// Assembler met en forme le résultat du moteur: phrase, données, graphique
type Assembler struct {
	renderer chartdomain.Renderer
	logger   *slog.Logger
}

// NewAssembler crée un Assembler; renderer nil = graphiques sans image
func NewAssembler(renderer chartdomain.Renderer, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{renderer: renderer, logger: logger}
}

// Assemble construit la réponse d'une action
// Le calcul est déjà fait: un échec de rendu ne change ni le message ni les données.
func (a *Assembler) Assemble(ctx context.Context, f intentdomain.Filter, res domain.Result) domain.Response {
	resp := domain.Response{Action: f.Action}

	if res.Err != nil {
		resp.Message = failureMessage(f, res.Err)
		resp.Error = res.Err.Error()
		return resp
	}

	switch f.Action {
	case intentdomain.ActionForecast:
		a.assembleForecast(ctx, f, res, &resp)
	case intentdomain.ActionDetail:
		assembleDetail(f, res, &resp)
	case intentdomain.ActionTop:
		a.assembleTop(ctx, f, res, &resp)
	case intentdomain.ActionRegionBreakdown:
		resp.Message = "Vendas por região:"
		resp.Data = res.Regions
		labels, values := make([]string, len(res.Regions)), make([]float64, len(res.Regions))
		for i, r := range res.Regions {
			labels[i], values[i] = r.Region, r.Value
		}
		resp.Chart = a.chart(ctx, chartdomain.Spec{
			Name: "vendas_por_regiao", Kind: chartdomain.KindBar, Title: "Vendas por região",
			YLabel: "Valor (R$)", Labels: labels, Values: values,
		})
	case intentdomain.ActionTotal:
		a.assembleTotals(ctx, f, res, &resp)
	default:
		resp.Action = intentdomain.ActionUnrecognized
		resp.Message = domain.FallbackMessage
	}
	return resp
}

func (a *Assembler) assembleForecast(ctx context.Context, f intentdomain.Filter, res domain.Result, resp *domain.Response) {
	if f.Entity == intentdomain.EntityVendor {
		g := res.Growth[0]
		resp.Message = fmt.Sprintf("Potencial de crescimento médio do vendedor %s:", g.Name)
		resp.Data = g
		return
	}

	fc := res.Forecast
	unit := "meses"
	if fc.Granularity == shareddomain.GranularityQuarter {
		unit = "trimestres"
	}
	resp.Message = fmt.Sprintf("Previsão de vendas do produto %d para os próximos %d %s:", fc.ProductID, len(fc.Predictions), unit)
	resp.Data = fc

	labels := make([]string, 0, len(fc.History)+len(fc.Predictions))
	values := make([]float64, 0, len(fc.History)+len(fc.Predictions))
	for _, p := range append(append([]analyticsdomain.SeriesPoint(nil), fc.History...), fc.Predictions...) {
		labels = append(labels, p.Label)
		values = append(values, p.Value)
	}
	resp.Chart = a.chart(ctx, chartdomain.Spec{
		Name:      fmt.Sprintf("previsao_produto_%d", fc.ProductID),
		Kind:      chartdomain.KindLine,
		Title:     fmt.Sprintf("Previsão de vendas do produto %d", fc.ProductID),
		XLabel:    "Período",
		YLabel:    metricLabel(fc.Metric),
		Labels:    labels,
		Values:    values,
		Projected: len(fc.Predictions),
	})
}

func assembleDetail(f intentdomain.Filter, res domain.Result, resp *domain.Response) {
	t := res.Total
	resp.Data = t
	value := shareddomain.FormatBRL(t.Value)
	switch t.Scope {
	case analyticsdomain.ScopeProduct:
		resp.Message = fmt.Sprintf("Vendas do produto %s (id %d): %d unidades, %s em %d vendas.", t.Name, t.ID, t.Quantity, value, t.Sales)
	case analyticsdomain.ScopeVendor:
		resp.Message = fmt.Sprintf("Vendas do vendedor %s (id %d): %d unidades, %s em %d vendas.", t.Name, t.ID, t.Quantity, value, t.Sales)
	default:
		resp.Message = fmt.Sprintf("Venda %d (produto %s): %d unidades, %s.", t.ID, t.Name, t.Quantity, value)
	}
}

func (a *Assembler) assembleTop(ctx context.Context, f intentdomain.Filter, res domain.Result, resp *domain.Response) {
	switch {
	case f.HasCategory():
		resp.Data = res.Products
		if f.Year > 0 {
			resp.Message = fmt.Sprintf("Top %d produtos da categoria %s em %d:", f.TopN, f.Category, f.Year)
		} else {
			resp.Message = fmt.Sprintf("Top %d produtos da categoria %s:", f.TopN, f.Category)
		}
		name := "top_categoria_" + textnorm.ColumnKey(f.Category)
		if f.Year > 0 {
			name += fmt.Sprintf("_%d", f.Year)
		}
		resp.Chart = a.productChart(ctx, name, resp.Message, res.Products, salesdomain.MetricValue)

	case f.Entity == intentdomain.EntityVendor:
		resp.Message = "Top vendedores:"
		resp.Data = res.Growth
		labels, values := make([]string, len(res.Growth)), make([]float64, len(res.Growth))
		for i, g := range res.Growth {
			labels[i], values[i] = g.Name, g.Growth
		}
		resp.Chart = a.chart(ctx, chartdomain.Spec{
			Name: "top_vendedores", Kind: chartdomain.KindBar, Title: "Top vendedores",
			YLabel: "Crescimento médio", Labels: labels, Values: values,
		})

	default:
		resp.Message = "Top produtos mais vendidos:"
		resp.Data = res.Products
		resp.Chart = a.productChart(ctx, "top_produtos", "Top produtos mais vendidos", res.Products, f.MetricOr(salesdomain.MetricQuantity))
	}
}

func (a *Assembler) assembleTotals(ctx context.Context, f intentdomain.Filter, res domain.Result, resp *domain.Response) {
	if f.Entity == intentdomain.EntityVendor {
		resp.Message = "Vendas totais por vendedor:"
		resp.Data = res.VendorTotals
		labels, values := make([]string, len(res.VendorTotals)), make([]float64, len(res.VendorTotals))
		for i, v := range res.VendorTotals {
			labels[i], values[i] = v.Name, v.Value
		}
		resp.Chart = a.chart(ctx, chartdomain.Spec{
			Name: "totais_vendedores", Kind: chartdomain.KindBar, Title: "Vendas totais por vendedor",
			YLabel: "Valor (R$)", Labels: labels, Values: values,
		})
		return
	}

	resp.Message = "Vendas totais por produto:"
	resp.Data = res.Products
	resp.Chart = a.productChart(ctx, "totais_produtos", "Vendas totais por produto", res.Products, f.MetricOr(salesdomain.MetricQuantity))
}

func (a *Assembler) productChart(ctx context.Context, name, title string, products []analyticsdomain.ProductTotal, m salesdomain.Metric) *domain.Chart {
	labels, values := make([]string, len(products)), make([]float64, len(products))
	for i, p := range products {
		labels[i], values[i] = p.Name, p.Measure(m)
	}
	return a.chart(ctx, chartdomain.Spec{
		Name: name, Kind: chartdomain.KindBar, Title: strings.TrimSuffix(title, ":"),
		YLabel: metricLabel(m), Labels: labels, Values: values,
	})
}

// chart retourne le descripteur et tente le rendu de l'image
// Sans données, aucun graphique n'est joint.
func (a *Assembler) chart(ctx context.Context, spec chartdomain.Spec) *domain.Chart {
	if len(spec.Values) == 0 {
		return nil
	}
	c := &domain.Chart{Type: spec.Kind, Labels: spec.Labels, Values: spec.Values}
	if a.renderer == nil {
		return c
	}
	art, err := a.renderer.Render(ctx, spec)
	if err != nil {
		a.logger.Warn("chart rendering failed", "chart", spec.Name, "error", err)
		return c
	}
	c.Artifact = &art
	return c
}

func failureMessage(f intentdomain.Filter, err error) string {
	if !errors.Is(err, analyticsdomain.ErrNotFound) {
		return "Não foi possível calcular a resposta."
	}
	switch {
	case f.Action == intentdomain.ActionForecast && f.Entity == intentdomain.EntityProduct:
		return "Produto não encontrado ou sem histórico"
	case f.Entity == intentdomain.EntityVendor:
		return "Vendedor não encontrado"
	case f.Entity == intentdomain.EntitySale:
		return "Venda não encontrada"
	default:
		return "Produto não encontrado"
	}
}

func metricLabel(m salesdomain.Metric) string {
	if m == salesdomain.MetricQuantity {
		return "Quantidade"
	}
	return "Valor (R$)"
}
