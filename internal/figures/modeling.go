package figures

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"thermopoll/internal/model"
	"thermopoll/internal/timeseries"
)

// STLComponent draws one decomposition component. Kind is Trend, Seasonal
// or Residual; each keeps the color it carries in the study figures.
func (r *Renderer) STLComponent(s *timeseries.Series, kind, path string) error {
	var (
		c color.Color
		y string
		w vg.Length
	)
	switch kind {
	case "Trend":
		c, y, w = ColorLST, "Trend (°C)", vg.Points(2.5)
	case "Seasonal":
		c, y, w = ColorAOD, "Seasonal", vg.Points(2.5)
	case "Residual":
		c, y, w = ColorResidual, "Residual", vg.Points(2)
	default:
		return fmt.Errorf("stl component figure: unknown kind %q", kind)
	}

	p := r.newPlot("STL "+kind+" Component", "Date", y)
	p.X.Tick.Marker = timeTicks()
	line, err := r.line(timePoints(s), c, w)
	if err != nil {
		return err
	}
	p.Add(line)

	return r.save(p, 10*vg.Inch, 4*vg.Inch, path)
}

// Forecast draws the observed monthly LST followed by the model forecast
// with its confidence band.
func (r *Renderer) Forecast(observed *timeseries.Series, points []model.ForecastPoint, confidence float64, path string) error {
	if observed.Len() == 0 {
		return fmt.Errorf("forecast figure: empty observed series")
	}
	if len(points) == 0 {
		return fmt.Errorf("forecast figure: no forecast points")
	}

	p := r.newPlot("SARIMA Forecast of Monthly LST", "Date", "Mean LST (°C)")
	p.X.Tick.Marker = timeTicks()

	obsLine, err := r.line(timePoints(observed), ColorAOD, vg.Points(2))
	if err != nil {
		return err
	}

	fcPts := make(plotter.XYs, len(points))
	band := make(plotter.XYs, 0, 2*len(points))
	for i, pt := range points {
		x := float64(pt.Month.Unix())
		fcPts[i] = plotter.XY{X: x, Y: pt.Value}
		band = append(band, plotter.XY{X: x, Y: pt.Upper})
	}
	for i := len(points) - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: float64(points[i].Month.Unix()), Y: points[i].Lower})
	}
	poly, err := plotter.NewPolygon(band)
	if err != nil {
		return err
	}
	fill := Faded(ColorLST, 0x40)
	poly.Color = fill
	poly.LineStyle.Color = fill
	poly.LineStyle.Width = 0

	fcLine, err := r.line(fcPts, ColorLST, vg.Points(2))
	if err != nil {
		return err
	}
	fcDots, err := r.scatter(fcPts, ColorLST, vg.Points(2.5), draw.CircleGlyph{})
	if err != nil {
		return err
	}

	p.Add(poly, obsLine, fcLine, fcDots)
	p.Legend.Add("Observed", obsLine)
	p.Legend.Add("Forecast", fcLine, fcDots)
	p.Legend.Add(fmt.Sprintf("%.0f%% Interval", confidence*100), poly)
	p.Legend.Top = true
	p.Legend.Left = true

	return r.save(p, 14*vg.Inch, 6*vg.Inch, path)
}
