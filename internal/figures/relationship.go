package figures

import (
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"thermopoll/internal/dataset"
	"thermopoll/internal/model"
	"thermopoll/internal/stats"
)

// ScatterRegression draws the monthly AOD-vs-LST scatter with the fitted
// line and an r/R²/p annotation in the top right corner.
func (r *Renderer) ScatterRegression(aod, lst []float64, reg stats.Regression, path string) error {
	if len(aod) == 0 || len(aod) != len(lst) {
		return fmt.Errorf("scatter figure: %d vs %d samples", len(aod), len(lst))
	}

	pts := make(plotter.XYs, len(aod))
	minX, maxX := aod[0], aod[0]
	maxY := lst[0]
	for i := range aod {
		pts[i] = plotter.XY{X: aod[i], Y: lst[i]}
		if aod[i] < minX {
			minX = aod[i]
		}
		if aod[i] > maxX {
			maxX = aod[i]
		}
		if lst[i] > maxY {
			maxY = lst[i]
		}
	}

	p := r.newPlot("", "Mean AOD", "Mean LST (°C)")

	dots, err := r.scatter(pts, ColorAOD, vg.Points(4), draw.CircleGlyph{})
	if err != nil {
		return err
	}
	rims, err := r.scatter(pts, r.theme.Foreground, vg.Points(4), draw.RingGlyph{})
	if err != nil {
		return err
	}

	fit := plotter.XYs{
		{X: minX, Y: reg.Predict(minX)},
		{X: maxX, Y: reg.Predict(maxX)},
	}
	fitLine, err := r.line(fit, ColorLST, vg.Points(2.5))
	if err != nil {
		return err
	}
	p.Add(dots, rims, fitLine)

	note := fmt.Sprintf("Pearson r = %.3f\nR² = %.3f\np = %.4f", reg.R, reg.RSquared, reg.PValue)
	if err := addCallout(p, maxX, maxY, note, ColorLST, text.XRight); err != nil {
		return err
	}

	return r.save(p, 8*vg.Inch, 6*vg.Inch, path)
}

// ResidualsVsFitted draws regression residuals against fitted values with a
// dashed zero reference.
func (r *Renderer) ResidualsVsFitted(fitted, residuals []float64, path string) error {
	if len(fitted) == 0 || len(fitted) != len(residuals) {
		return fmt.Errorf("residuals figure: %d vs %d samples", len(fitted), len(residuals))
	}

	pts := make(plotter.XYs, len(fitted))
	minX, maxX := fitted[0], fitted[0]
	for i := range fitted {
		pts[i] = plotter.XY{X: fitted[i], Y: residuals[i]}
		if fitted[i] < minX {
			minX = fitted[i]
		}
		if fitted[i] > maxX {
			maxX = fitted[i]
		}
	}

	p := r.newPlot("", "Fitted values (Predicted LST)", "Residuals")
	dots, err := r.scatter(pts, ColorLST, vg.Points(4), draw.CircleGlyph{})
	if err != nil {
		return err
	}
	zero, err := r.hline(0, minX, maxX, ColorLST, true)
	if err != nil {
		return err
	}
	p.Add(dots, zero)

	return r.save(p, 8*vg.Inch, 4*vg.Inch, path)
}

// YearlyScatterOptions label the yearly relationship scatter. Excluded
// years are drawn as warning crosses so they stay visible without entering
// the fit.
type YearlyScatterOptions struct {
	Title         string
	CompleteLabel string
	ExcludedLabel string
	FitLabel      string
	Annotation    string
}

// YearlyScatter draws the yearly AOD-vs-LST relationship. The fit may be
// nil when too few complete years exist; the points are still drawn.
func (r *Renderer) YearlyScatter(complete, excluded []dataset.YearlyObs, reg *stats.Regression, opts YearlyScatterOptions, path string) error {
	if len(complete) == 0 && len(excluded) == 0 {
		return fmt.Errorf("yearly scatter figure: no data")
	}

	p := r.newPlot(opts.Title, "Mean AOD", "Mean LST (°C)")

	var minX, maxX, maxY float64
	first := true
	observe := func(x, y float64) {
		if first {
			minX, maxX, maxY = x, x, y
			first = false
			return
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}

	if len(complete) > 0 {
		pts := make(plotter.XYs, len(complete))
		for i, o := range complete {
			pts[i] = plotter.XY{X: o.AOD, Y: o.LST}
			observe(o.AOD, o.LST)
		}
		dots, err := r.scatter(pts, ColorAOD, vg.Points(4.5), draw.CircleGlyph{})
		if err != nil {
			return err
		}
		p.Add(dots)
		p.Legend.Add(opts.CompleteLabel, dots)
	}

	if len(excluded) > 0 {
		pts := make(plotter.XYs, len(excluded))
		for i, o := range excluded {
			pts[i] = plotter.XY{X: o.AOD, Y: o.LST}
			observe(o.AOD, o.LST)
		}
		marks, err := r.scatter(pts, ColorHeat, vg.Points(6), draw.CrossGlyph{})
		if err != nil {
			return err
		}
		p.Add(marks)
		p.Legend.Add(opts.ExcludedLabel, marks)
	}

	if reg != nil {
		fit := plotter.XYs{
			{X: minX, Y: reg.Predict(minX)},
			{X: maxX, Y: reg.Predict(maxX)},
		}
		fitLine, err := r.line(fit, ColorLST, vg.Points(2.5))
		if err != nil {
			return err
		}
		p.Add(fitLine)
		p.Legend.Add(opts.FitLabel, fitLine)
		if opts.Annotation != "" {
			if err := addCallout(p, minX, maxY, opts.Annotation, ColorLST, text.XLeft); err != nil {
				return err
			}
		}
	}

	return r.save(p, 8*vg.Inch, 6*vg.Inch, path)
}

// ResidualsAndCCF stacks the yearly regression residuals over the stem plot
// of their cross-correlation with AOD.
func (r *Renderer) ResidualsAndCCF(years []int, residuals []float64, ccf []model.CCFPoint, periodLabel, path string) error {
	if len(years) == 0 || len(years) != len(residuals) {
		return fmt.Errorf("residuals/ccf figure: %d years vs %d residuals", len(years), len(residuals))
	}

	resPts := make(plotter.XYs, len(years))
	for i, y := range years {
		resPts[i] = plotter.XY{X: float64(y), Y: residuals[i]}
	}
	top := r.newPlot("Residuals Analysis ("+periodLabel+")", "", "Residuals (LST - Predicted)")
	top.X.Tick.Marker = yearTicks(years)
	resLine, err := r.line(resPts, ColorLST, vg.Points(2))
	if err != nil {
		return err
	}
	resDots, err := r.scatter(resPts, ColorLST, vg.Points(4), draw.CircleGlyph{})
	if err != nil {
		return err
	}
	top.Add(resLine, resDots)

	bottom := r.newPlot("Cross-Correlation Function ("+periodLabel+")", "Lag (years)", "CCF (Residuals vs AOD)")
	lagTicks := make([]plot.Tick, len(ccf))
	tips := make(plotter.XYs, len(ccf))
	for i, pt := range ccf {
		lagTicks[i] = plot.Tick{Value: float64(pt.Lag), Label: strconv.Itoa(pt.Lag)}
		tips[i] = plotter.XY{X: float64(pt.Lag), Y: pt.R}
		stem, err := r.line(plotter.XYs{{X: float64(pt.Lag), Y: 0}, {X: float64(pt.Lag), Y: pt.R}}, ColorAOD, vg.Points(2))
		if err != nil {
			return err
		}
		bottom.Add(stem)
	}
	bottom.X.Tick.Marker = plot.ConstantTicks(lagTicks)
	tipDots, err := r.scatter(tips, ColorAOD, vg.Points(4), draw.CircleGlyph{})
	if err != nil {
		return err
	}
	bottom.Add(tipDots)

	return r.savePanels([]*plot.Plot{top, bottom}, 9*vg.Inch, 8*vg.Inch, path)
}
