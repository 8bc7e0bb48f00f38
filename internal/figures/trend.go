package figures

import (
	"fmt"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"thermopoll/internal/model"
	"thermopoll/internal/stats"
	"thermopoll/internal/timeseries"
)

// Trend draws a monthly series with its least-squares trend line. The AOD
// rendition keeps the legend in the top right corner, the LST rendition in
// the bottom left, so neither covers the seasonal swing of its series.
func (r *Renderer) Trend(s *timeseries.Series, reg stats.Regression, variable model.Variable, path string) error {
	if s.Len() == 0 {
		return fmt.Errorf("trend figure: empty series")
	}

	var (
		c          = ColorAOD
		title      = "Figure: Trend of Aerosol Optical Depth (AOD) in the Study Area"
		ylabel     = "Aerosol Optical Depth (AOD)"
		seriesName = "Monthly Aerosol Optical Depth"
		legendTop  = true
		legendLeft = false
	)
	if variable == model.VariableLST {
		c = ColorLST
		title = "Figure: Trend of Land Surface Temperature (LST) in the Study Area"
		ylabel = "Land Surface Temperature (°C)"
		seriesName = "Monthly Land Surface Temperature"
		legendTop = false
		legendLeft = true
	}

	p := r.newPlot(title, "Date", ylabel)
	p.X.Tick.Marker = timeTicks()

	pts := timePoints(s)
	line, err := r.line(pts, Faded(c, 0xb3), vg.Points(2))
	if err != nil {
		return err
	}
	dots, err := r.scatter(pts, Faded(c, 0xb3), vg.Points(2), draw.CircleGlyph{})
	if err != nil {
		return err
	}

	trendPts := make(plotter.XYs, s.Len())
	for i := range s.Values {
		trendPts[i] = plotter.XY{
			X: float64(s.Months[i].Unix()),
			Y: reg.Intercept + reg.Slope*float64(i),
		}
	}
	trendLine, err := r.dashedLine(trendPts, ColorTrend, vg.Points(2.5))
	if err != nil {
		return err
	}

	p.Add(line, dots, trendLine)
	p.Legend.Add(seriesName, line, dots)
	p.Legend.Add("Linear Trend", trendLine)
	p.Legend.Top = legendTop
	p.Legend.Left = legendLeft

	return r.save(p, 12*vg.Inch, 6*vg.Inch, path)
}
