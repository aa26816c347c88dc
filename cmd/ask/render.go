package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	analyticsdomain "chatvendas/internal/analytics/domain"
	assistantdomain "chatvendas/internal/assistant/domain"
	shareddomain "chatvendas/internal/shared/domain"
)

// renderResponse affiche le message, les données en tableau et le lien du graphique
func renderResponse(w io.Writer, resp assistantdomain.Response) {
	_, _ = fmt.Fprintln(w, resp.Message)

	if t := dataTable(resp.Data); t != nil {
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.Render()
	}
	if resp.Chart != nil && resp.Chart.Artifact != nil {
		_, _ = fmt.Fprintln(w, "📈 "+resp.Chart.Artifact.Path)
	}
}

// dataTable construit le tableau des données; nil si rien à afficher
func dataTable(data any) table.Writer {
	t := table.NewWriter()

	switch d := data.(type) {
	case []analyticsdomain.ProductTotal:
		if len(d) == 0 {
			return nil
		}
		t.AppendHeader(table.Row{"id", "produto", "categoria", "quantidade", "valor"})
		for _, p := range d {
			t.AppendRow(table.Row{p.ProductID, p.Name, p.Category, p.Quantity, brl(p.Value)})
		}
	case []analyticsdomain.VendorTotal:
		if len(d) == 0 {
			return nil
		}
		t.AppendHeader(table.Row{"id", "vendedor", "região", "quantidade", "valor"})
		for _, v := range d {
			t.AppendRow(table.Row{v.VendorID, v.Name, v.Region, v.Quantity, brl(v.Value)})
		}
	case []analyticsdomain.RegionTotal:
		if len(d) == 0 {
			return nil
		}
		t.AppendHeader(table.Row{"região", "vendas", "quantidade", "valor"})
		for _, r := range d {
			t.AppendRow(table.Row{r.Region, r.Sales, r.Quantity, brl(r.Value)})
		}
	case []analyticsdomain.VendorGrowth:
		if len(d) == 0 {
			return nil
		}
		t.AppendHeader(table.Row{"id", "vendedor", "região", "crescimento"})
		for _, g := range d {
			t.AppendRow(table.Row{g.VendorID, g.Name, g.Region, percent(g.Growth)})
		}
	case analyticsdomain.VendorGrowth:
		t.AppendHeader(table.Row{"id", "vendedor", "região", "crescimento"})
		t.AppendRow(table.Row{d.VendorID, d.Name, d.Region, percent(d.Growth)})
	case *analyticsdomain.Forecast:
		t.AppendHeader(table.Row{"período", "valor", ""})
		for _, p := range d.History {
			t.AppendRow(table.Row{p.Label, fmt.Sprintf("%.2f", p.Value), ""})
		}
		t.AppendSeparator()
		for _, p := range d.Predictions {
			t.AppendRow(table.Row{p.Label, fmt.Sprintf("%.2f", p.Value), "previsão"})
		}
	default:
		return nil
	}
	return t
}

// renderSummary affiche le résumé SQL et la répartition par catégorie
func renderSummary(w io.Writer, s *analyticsdomain.StoreSummary, shares []analyticsdomain.CategoryShare) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"produtos", s.Products},
		{"vendedores", s.Vendors},
		{"vendas", s.Sales},
		{"quantidade", s.Quantity},
		{"valor total", brl(s.TotalValue)},
		{"período", s.FirstSale + " a " + s.LastSale},
	})
	t.Render()

	if len(shares) == 0 {
		return
	}
	c := table.NewWriter()
	c.SetOutputMirror(w)
	c.SetStyle(table.StyleLight)
	c.AppendHeader(table.Row{"categoria", "vendas", "valor", "%"})
	for _, sh := range shares {
		c.AppendRow(table.Row{sh.Category, sh.Sales, brl(sh.Value), fmt.Sprintf("%.1f", sh.Percentage)})
	}
	c.Render()
}

func brl(v float64) string {
	return shareddomain.FormatBRL(v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
