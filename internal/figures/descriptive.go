package figures

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"thermopoll/internal/dataset"
)

// MonthlyCycle draws the climatological annual cycle of both variables as
// two stacked panels, AOD above LST, with peak callouts on each.
func (r *Renderer) MonthlyCycle(cycle []dataset.MonthCycle, path string) error {
	if len(cycle) == 0 {
		return fmt.Errorf("monthly cycle figure: no data")
	}

	aodPts := make(plotter.XYs, len(cycle))
	lstPts := make(plotter.XYs, len(cycle))
	peakAOD, peakLST := 0, 0
	for i, c := range cycle {
		aodPts[i] = plotter.XY{X: float64(c.Month), Y: c.AOD}
		lstPts[i] = plotter.XY{X: float64(c.Month), Y: c.LST}
		if c.AOD > cycle[peakAOD].AOD {
			peakAOD = i
		}
		if c.LST > cycle[peakLST].LST {
			peakLST = i
		}
	}

	top := r.newPlot("", "", "Mean AOD")
	top.X.Tick.Marker = monthTicks()
	aodLine, err := r.line(aodPts, ColorAOD, vg.Points(2))
	if err != nil {
		return err
	}
	aodDots, err := r.scatter(aodPts, ColorAOD, vg.Points(3), draw.CircleGlyph{})
	if err != nil {
		return err
	}
	top.Add(aodLine, aodDots)
	top.Legend.Add("Mean AOD", aodLine, aodDots)
	top.Legend.Top = true
	if err := addCallout(top, float64(cycle[peakAOD].Month)-0.3, cycle[peakAOD].AOD,
		fmt.Sprintf("Peak AOD: %.2f", cycle[peakAOD].AOD), ColorAOD, text.XRight); err != nil {
		return err
	}

	bottom := r.newPlot("", "Month", "Mean LST (°C)")
	bottom.X.Tick.Marker = monthTicks()
	lstLine, err := r.dashedLine(lstPts, ColorLST, vg.Points(2))
	if err != nil {
		return err
	}
	lstDots, err := r.scatter(lstPts, ColorLST, vg.Points(3), draw.SquareGlyph{})
	if err != nil {
		return err
	}
	bottom.Add(lstLine, lstDots)
	bottom.Legend.Add("Mean LST (°C)", lstLine, lstDots)
	bottom.Legend.Top = true

	// Vertical marker at the hottest month.
	peakX := float64(cycle[peakLST].Month)
	minLST, maxLST := lstPts[0].Y, lstPts[0].Y
	for _, p := range lstPts {
		if p.Y < minLST {
			minLST = p.Y
		}
		if p.Y > maxLST {
			maxLST = p.Y
		}
	}
	vline, err := r.dashedLine(plotter.XYs{{X: peakX, Y: minLST}, {X: peakX, Y: maxLST}}, ColorLST, vg.Points(1.5))
	if err != nil {
		return err
	}
	bottom.Add(vline)
	if err := addCallout(bottom, peakX+0.3, cycle[peakLST].LST,
		fmt.Sprintf("Peak LST: %.1f °C", cycle[peakLST].LST), ColorLST, text.XLeft); err != nil {
		return err
	}

	return r.savePanels([]*plot.Plot{top, bottom}, 10*vg.Inch, 6*vg.Inch, path)
}

// SeasonalCycle draws per-season means: AOD as bars above an LST line.
func (r *Renderer) SeasonalCycle(cycle []dataset.SeasonCycle, path string) error {
	if len(cycle) == 0 {
		return fmt.Errorf("seasonal cycle figure: no data")
	}

	names := make([]string, len(cycle))
	aodVals := make(plotter.Values, len(cycle))
	lstPts := make(plotter.XYs, len(cycle))
	for i, c := range cycle {
		names[i] = dataset.SeasonTitle(c.Season)
		aodVals[i] = c.AOD
		lstPts[i] = plotter.XY{X: float64(i), Y: c.LST}
	}

	top := r.newPlot("", "", "Mean AOD")
	bars, err := plotter.NewBarChart(aodVals, vg.Points(45))
	if err != nil {
		return err
	}
	bars.Color = ColorAOD
	bars.LineStyle.Color = r.theme.Foreground
	bars.LineStyle.Width = vg.Points(1)
	top.Add(bars)
	top.Legend.Add("Mean AOD", bars)
	top.Legend.Top = true
	top.NominalX(names...)

	bottom := r.newPlot("", "Season", "Mean LST (°C)")
	lstLine, err := r.line(lstPts, ColorLST, vg.Points(2.5))
	if err != nil {
		return err
	}
	lstDots, err := r.scatter(lstPts, ColorLST, vg.Points(5), draw.PyramidGlyph{})
	if err != nil {
		return err
	}
	bottom.Add(lstLine, lstDots)
	bottom.Legend.Add("Mean LST (°C)", lstLine, lstDots)
	bottom.Legend.Top = true
	bottom.NominalX(names...)

	return r.savePanels([]*plot.Plot{top, bottom}, 9*vg.Inch, 6*vg.Inch, path)
}

// addCallout places a single colored annotation at a data coordinate.
func addCallout(p *plot.Plot, x, y float64, label string, c color.Color, align text.XAlignment) error {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x, Y: y}},
		Labels: []string{label},
	})
	if err != nil {
		return err
	}
	labels.TextStyle[0].Color = c
	labels.TextStyle[0].XAlign = align
	labels.TextStyle[0].YAlign = text.YCenter
	p.Add(labels)
	return nil
}
