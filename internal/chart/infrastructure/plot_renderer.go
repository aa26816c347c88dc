package infrastructure

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"chatvendas/internal/chart/domain"
)

const (
	// URLPrefix chemin HTTP sous lequel les images sont servies
	URLPrefix = "/api/charts/"

	chartWidth  = 8 * vg.Inch
	chartHeight = 4 * vg.Inch
)

var (
	historyColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	forecastColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// PlotRenderer écrit des PNG dans un répertoire avec gonum/plot
type PlotRenderer struct {
	dir    string
	logger *slog.Logger
}

// NewPlotRenderer crée le répertoire de sortie si besoin
func NewPlotRenderer(dir string, logger *slog.Logger) (*PlotRenderer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	return &PlotRenderer{dir: dir, logger: logger}, nil
}

// Dir répertoire des images
func (r *PlotRenderer) Dir() string {
	return r.dir
}

// Render trace le graphique et l'écrit sous <dir>/<name>.png
// L'écriture passe par un fichier temporaire renommé, un lecteur concurrent ne
// voit jamais d'image partielle.
func (r *PlotRenderer) Render(ctx context.Context, spec domain.Spec) (domain.Artifact, error) {
	if err := spec.Validate(); err != nil {
		return domain.Artifact{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Artifact{}, err
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel

	var err error
	switch spec.Kind {
	case domain.KindBar:
		err = addBars(p, spec)
	case domain.KindLine:
		err = addLines(p, spec)
	}
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("build chart %s: %w", spec.Name, err)
	}
	p.NominalX(spec.Labels...)

	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("encode chart %s: %w", spec.Name, err)
	}

	file := spec.Name + ".png"
	path := filepath.Join(r.dir, file)
	tmp, err := os.CreateTemp(r.dir, "."+spec.Name+"-*.png")
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("write chart %s: %w", spec.Name, err)
	}
	if _, err := wt.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return domain.Artifact{}, fmt.Errorf("write chart %s: %w", spec.Name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return domain.Artifact{}, fmt.Errorf("write chart %s: %w", spec.Name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return domain.Artifact{}, fmt.Errorf("write chart %s: %w", spec.Name, err)
	}

	r.logger.Debug("chart rendered", "name", file, "kind", spec.Kind, "points", len(spec.Values))
	return domain.Artifact{Name: file, Path: path, URL: URLPrefix + file}, nil
}

func addBars(p *plot.Plot, spec domain.Spec) error {
	observed := len(spec.Values) - spec.Projected

	bars, err := plotter.NewBarChart(plotter.Values(spec.Values[:observed]), vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = historyColor
	p.Add(bars)

	if spec.Projected == 0 {
		return nil
	}
	// barres de prévision décalées après l'historique
	projected := make(plotter.Values, len(spec.Values))
	copy(projected[observed:], spec.Values[observed:])
	next, err := plotter.NewBarChart(projected, vg.Points(20))
	if err != nil {
		return err
	}
	next.Color = forecastColor
	p.Add(next)
	p.Legend.Add("Histórico", bars)
	p.Legend.Add("Previsão", next)
	return nil
}

func addLines(p *plot.Plot, spec domain.Spec) error {
	observed := len(spec.Values) - spec.Projected

	history := make(plotter.XYs, observed)
	for i := range history {
		history[i].X = float64(i)
		history[i].Y = spec.Values[i]
	}
	line, points, err := plotter.NewLinePoints(history)
	if err != nil {
		return err
	}
	line.Color = historyColor
	points.Color = historyColor
	p.Add(line, points)
	p.Legend.Add("Histórico", line)

	if spec.Projected == 0 {
		return nil
	}

	// la prévision repart du dernier point observé
	from := max(observed-1, 0)
	forecast := make(plotter.XYs, len(spec.Values)-from)
	for i := range forecast {
		forecast[i].X = float64(from + i)
		forecast[i].Y = spec.Values[from+i]
	}
	fline, err := plotter.NewLine(forecast)
	if err != nil {
		return err
	}
	fline.Color = forecastColor
	fline.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(fline)
	p.Legend.Add("Previsão", fline)
	return nil
}
