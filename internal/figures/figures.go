// Package figures renders the study's publication figures with gonum/plot.
// Every figure is a PNG written at the configured DPI on the configured
// theme background; file names and destination folders are chosen by the
// calling analysis.
package figures

import (
	"image/color"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"thermopoll/internal/timeseries"
)

// Renderer builds themed plots and writes them as PNG files.
type Renderer struct {
	theme Theme
	dpi   int
}

func NewRenderer(theme Theme, dpi int) *Renderer {
	if dpi <= 0 {
		dpi = 300
	}
	return &Renderer{theme: theme, dpi: dpi}
}

// newPlot returns an empty plot with themed title, axes and grid.
func (r *Renderer) newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = r.theme.Background
	p.Title.Text = title
	p.Title.TextStyle.Color = r.theme.Foreground
	r.styleAxis(&p.X, xlabel)
	r.styleAxis(&p.Y, ylabel)
	p.Legend.TextStyle.Color = r.theme.Foreground
	grid := plotter.NewGrid()
	grid.Vertical.Color = r.theme.Grid
	grid.Horizontal.Color = r.theme.Grid
	grid.Vertical.Dashes = dashPattern()
	grid.Horizontal.Dashes = dashPattern()
	p.Add(grid)
	return p
}

func (r *Renderer) styleAxis(ax *plot.Axis, label string) {
	ax.Label.Text = label
	ax.Label.TextStyle.Color = r.theme.Foreground
	ax.LineStyle.Color = r.theme.Foreground
	ax.Tick.LineStyle.Color = r.theme.Foreground
	ax.Tick.Label.Color = r.theme.Foreground
}

// save renders p onto a w-by-h canvas and writes it to path.
func (r *Renderer) save(p *plot.Plot, w, h vg.Length, path string) error {
	c := r.canvas(w, h)
	p.Draw(draw.New(c))
	return writePNG(c, path)
}

// savePanels stacks plots top to bottom on one canvas, the layout used for
// the multi-panel event and diagnostics figures.
func (r *Renderer) savePanels(plots []*plot.Plot, w, h vg.Length, path string) error {
	c := r.canvas(w, h)
	dc := draw.New(c)
	rows := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		rows[i] = []*plot.Plot{p}
	}
	tiles := draw.Tiles{Rows: len(plots), Cols: 1, PadY: vg.Millimeter * 4}
	canvases := plot.Align(rows, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}
	return writePNG(c, path)
}

func (r *Renderer) canvas(w, h vg.Length) *vgimg.Canvas {
	return vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(r.dpi),
		vgimg.UseBackgroundColor(r.theme.Background),
	)
}

func writePNG(c *vgimg.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// timePoints maps a monthly series onto plot coordinates, dropping NaN
// values such as the undefined edges of decomposition components.
func timePoints(s *timeseries.Series) plotter.XYs {
	pts := make(plotter.XYs, 0, s.Len())
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(s.Months[i].Unix()), Y: v})
	}
	return pts
}

func timeTicks() plot.TimeTicks {
	return plot.TimeTicks{Format: "2006-01"}
}

func monthTicks() plot.ConstantTicks {
	ticks := make([]plot.Tick, 12)
	for i := range ticks {
		ticks[i] = plot.Tick{Value: float64(i + 1), Label: strconv.Itoa(i + 1)}
	}
	return plot.ConstantTicks(ticks)
}

func yearTicks(years []int) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(years))
	for i, y := range years {
		ticks[i] = plot.Tick{Value: float64(y), Label: strconv.Itoa(y)}
	}
	return plot.ConstantTicks(ticks)
}

func dashPattern() []vg.Length {
	return []vg.Length{vg.Points(4), vg.Points(3)}
}

func (r *Renderer) line(pts plotter.XYs, c color.Color, width vg.Length) (*plotter.Line, error) {
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	l.Color = c
	l.Width = width
	return l, nil
}

func (r *Renderer) dashedLine(pts plotter.XYs, c color.Color, width vg.Length) (*plotter.Line, error) {
	l, err := r.line(pts, c, width)
	if err != nil {
		return nil, err
	}
	l.Dashes = dashPattern()
	return l, nil
}

func (r *Renderer) scatter(pts plotter.XYs, c color.Color, radius vg.Length, shape draw.GlyphDrawer) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = radius
	s.GlyphStyle.Shape = shape
	return s, nil
}

// hline is a horizontal reference line spanning [x0, x1].
func (r *Renderer) hline(y, x0, x1 float64, c color.Color, dashed bool) (*plotter.Line, error) {
	pts := plotter.XYs{{X: x0, Y: y}, {X: x1, Y: y}}
	if dashed {
		return r.dashedLine(pts, c, vg.Points(1))
	}
	return r.line(pts, c, vg.Points(1))
}

// maskFills builds one translucent fill polygon per contiguous masked run,
// anchored to the zero line, mirroring a fill-between with a where mask.
func maskFills(s *timeseries.Series, mask []bool, fill color.Color) ([]plot.Plotter, error) {
	var out []plot.Plotter
	for i := 0; i < len(mask); {
		if !mask[i] {
			i++
			continue
		}
		j := i
		for j+1 < len(mask) && mask[j+1] {
			j++
		}
		pts := make(plotter.XYs, 0, (j-i)+3)
		pts = append(pts, plotter.XY{X: float64(s.Months[i].Unix()), Y: 0})
		for k := i; k <= j; k++ {
			pts = append(pts, plotter.XY{X: float64(s.Months[k].Unix()), Y: s.Values[k]})
		}
		pts = append(pts, plotter.XY{X: float64(s.Months[j].Unix()), Y: 0})
		poly, err := plotter.NewPolygon(pts)
		if err != nil {
			return nil, err
		}
		poly.Color = fill
		poly.LineStyle.Color = fill
		poly.LineStyle.Width = 0
		out = append(out, poly)
		i = j + 1
	}
	return out, nil
}
