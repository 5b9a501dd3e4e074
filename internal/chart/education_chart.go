package chart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"questionnaire/internal/domain"
)

const (
	educationChartTitle = "Распределение информантов по уровню образования"
	// Las etiquetas ya traen el porcentaje; echarts sólo muestra el nombre.
	sliceLabelFormat = "{b}"
)

// EducationChartRenderer dibuja la distribución como pie chart y la exporta
// a una ruta fija, sobrescribiendo el artefacto anterior.
type EducationChartRenderer struct {
	logger *zap.Logger
	path   string

	// mu protege canvas: adquirir, dibujar, exportar y liberar van juntos.
	mu     sync.Mutex
	canvas *charts.Pie
}

func NewEducationChartRenderer(logger *zap.Logger, dir, file string) *EducationChartRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EducationChartRenderer{
		logger: logger,
		path:   filepath.Join(dir, file),
	}
}

// Path devuelve la ruta del artefacto exportado.
func (r *EducationChartRenderer) Path() string {
	return r.path
}

func (r *EducationChartRenderer) RenderEducationChart(ctx context.Context, distribution []domain.CategoryCount) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pie := r.acquire()
	defer r.release()

	draw(pie, distribution)
	if err := r.export(pie); err != nil {
		return err
	}
	r.logger.Info("education chart exported",
		zap.String("path", r.path),
		zap.Int("slices", len(distribution)),
	)
	return nil
}

func (r *EducationChartRenderer) acquire() *charts.Pie {
	r.canvas = charts.NewPie()
	return r.canvas
}

func (r *EducationChartRenderer) release() {
	r.canvas = nil
}

// SliceLabel arma "etiqueta: 12.34%" con el porcentaje a dos decimales.
func SliceLabel(slice domain.CategoryCount, distribution []domain.CategoryCount) string {
	total := 0
	for _, c := range distribution {
		total += c.Count
	}
	pct := 0.0
	if total > 0 {
		pct = float64(slice.Count) * 100 / float64(total)
	}
	return fmt.Sprintf("%s: %.2f%%", slice.Label, pct)
}

func draw(pie *charts.Pie, distribution []domain.CategoryCount) {
	items := make([]opts.PieData, 0, len(distribution))
	for _, c := range distribution {
		items = append(items, opts.PieData{Name: SliceLabel(c, distribution), Value: c.Count})
	}

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: educationChartTitle}),
		charts.WithTitleOpts(opts.Title{Title: educationChartTitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	pie.AddSeries("level_of_education", items).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show:      true,
			Formatter: sliceLabelFormat,
		}),
	)
}

// export escribe a un temporal del mismo directorio y lo renombra encima del destino.
func (r *EducationChartRenderer) export(pie *charts.Pie) (err error) {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".chart-*.html")
	if err != nil {
		return fmt.Errorf("create chart temp file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if err := pie.Render(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close chart temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod chart: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace chart %s: %w", r.path, err)
	}
	return nil
}
