package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	analyticsdomain "chatvendas/internal/analytics/domain"
	assistantdomain "chatvendas/internal/assistant/domain"
	chartdomain "chatvendas/internal/chart/domain"
)

func TestRenderResponse(t *testing.T) {
	tests := []struct {
		name     string
		resp     assistantdomain.Response
		contains []string
	}{
		{
			name: "products",
			resp: assistantdomain.Response{
				Message: "Top produtos mais vendidos:",
				Data: []analyticsdomain.ProductTotal{
					{ProductID: 1, Name: "Notebook", Category: "Eletrônicos", Quantity: 10, Value: 1000},
				},
				Chart: &assistantdomain.Chart{Artifact: &chartdomain.Artifact{Path: "static/charts/top_produtos.png"}},
			},
			contains: []string{"Top produtos mais vendidos:", "Notebook", "R$ 1.000,00", "top_produtos.png"},
		},
		{
			name: "growth",
			resp: assistantdomain.Response{
				Message: "Potencial de crescimento médio do vendedor Ana:",
				Data:    analyticsdomain.VendorGrowth{VendorID: 1, Name: "Ana", Region: "Sul", Growth: 0.25},
			},
			contains: []string{"Ana", "25.00%"},
		},
		{
			name: "forecast",
			resp: assistantdomain.Response{
				Message: "Previsão:",
				Data: &analyticsdomain.Forecast{
					History:     []analyticsdomain.SeriesPoint{{Label: "2023-01", Value: 2}},
					Predictions: []analyticsdomain.SeriesPoint{{Label: "2023-02", Value: 3}},
				},
			},
			contains: []string{"2023-01", "2023-02", "previsão"},
		},
		{
			name:     "message only",
			resp:     assistantdomain.Response{Message: assistantdomain.FallbackMessage},
			contains: []string{assistantdomain.FallbackMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			renderResponse(&buf, tt.resp)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	renderSummary(&buf,
		&analyticsdomain.StoreSummary{Products: 3, Sales: 9, TotalValue: 1260, FirstSale: "2022-12-20", LastSale: "2023-04-05"},
		[]analyticsdomain.CategoryShare{{Category: "Móveis", Sales: 2, Value: 150, Percentage: 11.9}},
	)

	assert.Contains(t, buf.String(), "2022-12-20 a 2023-04-05")
	assert.Contains(t, buf.String(), "Móveis")
	assert.Contains(t, buf.String(), "11.9")
}
