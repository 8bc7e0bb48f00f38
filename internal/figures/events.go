package figures

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"thermopoll/internal/events"
	"thermopoll/internal/timeseries"
)

// AnomalyPanels stacks the LST anomaly series over the AOD anomaly series,
// shading every month flagged by the percentile detector.
func (r *Renderer) AnomalyPanels(lst *timeseries.Series, lstMask []bool, aod *timeseries.Series, aodMask []bool, path string) error {
	top, err := r.anomalyPanel(lst, lstMask, ColorHeat,
		"Heatwave Detection in Lagos", "", "LST Anomaly", "LST Anomaly", "Heatwave Event")
	if err != nil {
		return err
	}
	bottom, err := r.anomalyPanel(aod, aodMask, ColorHaze,
		"High Pollution Detection in Lagos", "Date", "AOD Anomaly", "AOD Anomaly", "High Pollution Event")
	if err != nil {
		return err
	}
	return r.savePanels([]*plot.Plot{top, bottom}, 14*vg.Inch, 8*vg.Inch, path)
}

func (r *Renderer) anomalyPanel(s *timeseries.Series, mask []bool, c color.NRGBA, title, xlabel, ylabel, lineLabel, fillLabel string) (*plot.Plot, error) {
	if s.Len() == 0 || s.Len() != len(mask) {
		return nil, fmt.Errorf("anomaly panel %s: %d values vs %d mask entries", ylabel, s.Len(), len(mask))
	}

	p := r.newPlot(title, xlabel, ylabel)
	p.X.Tick.Marker = timeTicks()

	line, err := r.line(timePoints(s), c, vg.Points(2))
	if err != nil {
		return nil, err
	}
	fills, err := maskFills(s, mask, Faded(c, 0x4d))
	if err != nil {
		return nil, err
	}
	zero, err := r.hline(0, float64(s.Months[0].Unix()), float64(s.Months[s.Len()-1].Unix()), r.theme.Foreground, false)
	if err != nil {
		return nil, err
	}

	p.Add(fills...)
	p.Add(line, zero)
	p.Legend.Add(lineLabel, line)
	if len(fills) > 0 {
		if poly, ok := fills[0].(*plotter.Polygon); ok {
			p.Legend.Add(fillLabel, poly)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// EventCalendar renders a year-by-month heatmap of flagged months.
func (r *Renderer) EventCalendar(cal *events.Calendar, title string, accent color.NRGBA, path string) error {
	if len(cal.Years) == 0 {
		return fmt.Errorf("event calendar figure: no years")
	}

	hm := plotter.NewHeatMap(calendarGrid{cal: cal}, gradient{
		from: color.NRGBA{R: 0xf5, G: 0xf0, B: 0xf0, A: 0xff},
		to:   accent,
		n:    64,
	})
	hm.Min = 0
	hm.Max = 1
	if m := cal.Max(); m > 1 {
		hm.Max = float64(m)
	}

	p := r.newPlot(title, "Month", "Year")
	p.Add(hm)

	monthNames := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	ticks := make([]plot.Tick, 12)
	for i, name := range monthNames {
		ticks[i] = plot.Tick{Value: float64(i + 1), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = yearTicks(cal.Years)

	return r.save(p, 12*vg.Inch, 6*vg.Inch, path)
}

// CompositeZ overlays both standardized anomaly series and shades every
// month above the high-anomaly cutoff.
func (r *Renderer) CompositeZ(lstZ, aodZ *timeseries.Series, threshold float64, path string) error {
	if lstZ.Len() == 0 || aodZ.Len() == 0 {
		return fmt.Errorf("composite z figure: empty series")
	}

	p := r.newPlot("Composite Z-score Anomalies for LST & AOD", "Date", "Z-score Anomaly")
	p.X.Tick.Marker = timeTicks()

	lstLine, err := r.line(timePoints(lstZ), ColorHeat, vg.Points(2))
	if err != nil {
		return err
	}
	aodLine, err := r.line(timePoints(aodZ), ColorHaze, vg.Points(2))
	if err != nil {
		return err
	}

	start := lstZ.Months[0]
	end := lstZ.Months[lstZ.Len()-1]
	if aodZ.Months[0].Before(start) {
		start = aodZ.Months[0]
	}
	if aodZ.Months[aodZ.Len()-1].After(end) {
		end = aodZ.Months[aodZ.Len()-1]
	}
	zero, err := r.hline(0, float64(start.Unix()), float64(end.Unix()), r.theme.Foreground, true)
	if err != nil {
		return err
	}

	lstFills, err := maskFills(lstZ, aboveThreshold(lstZ.Values, threshold), Faded(ColorHeat, 0x33))
	if err != nil {
		return err
	}
	aodFills, err := maskFills(aodZ, aboveThreshold(aodZ.Values, threshold), Faded(ColorHaze, 0x33))
	if err != nil {
		return err
	}

	p.Add(lstFills...)
	p.Add(aodFills...)
	p.Add(lstLine, aodLine, zero)
	p.Legend.Add("LST Anomaly Z-score", lstLine)
	p.Legend.Add("AOD Anomaly Z-score", aodLine)
	if len(lstFills) > 0 {
		if poly, ok := lstFills[0].(*plotter.Polygon); ok {
			p.Legend.Add("LST High Anomaly", poly)
		}
	}
	if len(aodFills) > 0 {
		if poly, ok := aodFills[0].(*plotter.Polygon); ok {
			p.Legend.Add("AOD High Anomaly", poly)
		}
	}
	p.Legend.Top = true

	return r.save(p, 14*vg.Inch, 6*vg.Inch, path)
}

func aboveThreshold(values []float64, threshold float64) []bool {
	mask := make([]bool, len(values))
	for i, v := range values {
		mask[i] = v > threshold
	}
	return mask
}

// calendarGrid adapts an event calendar to the heatmap grid interface.
// Column c is calendar month c+1; row r is the r-th year.
type calendarGrid struct {
	cal *events.Calendar
}

func (g calendarGrid) Dims() (c, r int)   { return 12, len(g.cal.Years) }
func (g calendarGrid) Z(c, r int) float64 { return float64(g.cal.Counts[r][c]) }
func (g calendarGrid) X(c int) float64    { return float64(c + 1) }
func (g calendarGrid) Y(r int) float64    { return float64(g.cal.Years[r]) }

// gradient is a uniform two-color palette.
type gradient struct {
	from, to color.NRGBA
	n        int
}

func (g gradient) Colors() []color.Color {
	n := g.n
	if n < 2 {
		n = 2
	}
	out := make([]color.Color, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = color.NRGBA{
			R: lerpByte(g.from.R, g.to.R, t),
			G: lerpByte(g.from.G, g.to.G, t),
			B: lerpByte(g.from.B, g.to.B, t),
			A: lerpByte(g.from.A, g.to.A, t),
		}
	}
	return out
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
