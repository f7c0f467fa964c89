package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"SpyReg/internal/domain/models"
	domsvc "SpyReg/internal/domain/service"
	"SpyReg/pkg/apperr"
	applogger "SpyReg/pkg/logger"
)

const (
	histBins   = 20
	cellSize   = 1.6 * vg.Inch
	singleSize = 6 * vg.Inch
)

// Plotter renders table columns with gonum/plot. The output format follows
// the file extension (png, svg, pdf, jpg).
type Plotter struct {
	l *applogger.Logger
}

func NewPlotter() *Plotter { return &Plotter{} }

// SetLogger injects a structured logger.
func (p *Plotter) SetLogger(l *applogger.Logger) { p.l = l }

// Scatter draws yCol against xCol.
func (p *Plotter) Scatter(t *models.Table, xCol, yCol, path string) error {
	pl, err := scatterPlot(t, xCol, yCol)
	if err != nil {
		return err
	}
	pl.Title.Text = fmt.Sprintf("%s vs %s", yCol, xCol)
	pl.X.Label.Text = xCol
	pl.Y.Label.Text = yCol

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.IOError(path, err)
	}
	if err := pl.Save(singleSize, singleSize, path); err != nil {
		return apperr.IOError(path, err)
	}
	p.logSaved("scatter", path, t.Len())
	return nil
}

// ScatterMatrix draws every pair of columns in a grid with a histogram of
// each column on the diagonal.
func (p *Plotter) ScatterMatrix(t *models.Table, columns []string, path string) error {
	k := len(columns)
	if k == 0 {
		return apperr.DataErrorf("scatter matrix needs at least one column")
	}
	grid := make([][]*plot.Plot, k)
	for i, yCol := range columns {
		grid[i] = make([]*plot.Plot, k)
		for j, xCol := range columns {
			var (
				pl  *plot.Plot
				err error
			)
			if i == j {
				pl, err = histPlot(t, xCol)
			} else {
				pl, err = scatterPlot(t, xCol, yCol)
			}
			if err != nil {
				return err
			}
			if i == k-1 {
				pl.X.Label.Text = xCol
			}
			if j == 0 {
				pl.Y.Label.Text = yCol
			}
			grid[i][j] = pl
		}
	}

	side := cellSize * vg.Length(k)
	c, err := draw.NewFormattedCanvas(side, side, format(path))
	if err != nil {
		return apperr.IOError(path, err)
	}
	tiles := draw.Tiles{
		Rows: k,
		Cols: k,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align(grid, tiles, draw.New(c))
	for i := range grid {
		for j := range grid[i] {
			grid[i][j].Draw(canvases[i][j])
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.IOError(path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return apperr.IOError(path, err)
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return apperr.IOError(path, err)
	}
	if err := f.Close(); err != nil {
		return apperr.IOError(path, err)
	}
	p.logSaved("scatter_matrix", path, t.Len())
	return nil
}

func (p *Plotter) logSaved(kind, path string, rows int) {
	if p.l == nil {
		return
	}
	p.l.Info("plot saved",
		applogger.String("kind", kind),
		applogger.String("path", path),
		applogger.Int("rows", rows),
	)
}

func scatterPlot(t *models.Table, xCol, yCol string) (*plot.Plot, error) {
	x, err := column(t, xCol)
	if err != nil {
		return nil, err
	}
	y, err := column(t, yCol)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, apperr.DataErrorf("scatter points").WithField(xCol).WithError(err)
	}
	s.GlyphStyle.Radius = vg.Points(1)

	pl := plot.New()
	pl.Add(s)
	return pl, nil
}

func histPlot(t *models.Table, name string) (*plot.Plot, error) {
	v, err := column(t, name)
	if err != nil {
		return nil, err
	}
	h, err := plotter.NewHist(plotter.Values(v), histBins)
	if err != nil {
		return nil, apperr.DataErrorf("histogram").WithField(name).WithError(err)
	}
	pl := plot.New()
	pl.Add(h)
	return pl, nil
}

func column(t *models.Table, name string) ([]float64, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, apperr.SchemaErrorf("column not found").
			WithField(name).
			WithError(models.ErrMissingColumn)
	}
	return c, nil
}

func format(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "png"
	}
	return ext
}

var _ domsvc.Plotter = (*Plotter)(nil)
