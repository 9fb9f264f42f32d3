// Package render draws a phase portrait as a static image with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/tbphase/internal/analysis"
)

const DefaultSize = 7 * vg.Inch

// Options select the optional overlays.
type Options struct {
	Nullclines bool
	Equilibria bool
}

// Plot builds the figure: gray quiver arrows under one colored line per
// trajectory, on the fixed [0, 1.2]² frame.
func Plot(pt *analysis.Portrait, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = analysis.Title
	p.X.Label.Text = analysis.XLabel
	p.Y.Label.Text = analysis.YLabel

	p.Add(NewQuiver(pt.Field))

	if opts.Nullclines {
		for k, nc := range pt.Nullclines {
			if len(nc.Points) < 2 {
				continue
			}
			l, err := plotter.NewLine(points(nc.Points))
			if err != nil {
				return nil, fmt.Errorf("nullcline %s: %w", nc.Name, err)
			}
			l.Color = color.Gray{Y: 90}
			l.Dashes = plotutil.Dashes(k + 1)
			p.Add(l)
			p.Legend.Add(nc.Name, l)
		}
	}

	for k, tr := range pt.Trajectories {
		n := tr.Valid()
		if n < 2 {
			continue
		}
		l, err := plotter.NewLine(points(tr.Points[:n]))
		if err != nil {
			return nil, fmt.Errorf("trajectory from (%g, %g): %w", tr.Start.B, tr.Start.I, err)
		}
		l.Color = plotutil.Color(k)
		l.Width = vg.Points(1.8)
		p.Add(l)
	}

	if opts.Equilibria {
		if err := addEquilibria(p, pt.Equilibria); err != nil {
			return nil, err
		}
	}

	// plotters widen the axes to their data range; keep the frame fixed
	p.X.Min, p.X.Max = analysis.PlotMin, analysis.PlotMax
	p.Y.Min, p.Y.Max = analysis.PlotMin, analysis.PlotMax
	p.Legend.Top = true
	return p, nil
}

// addEquilibria marks stable points filled and the rest as rings.
func addEquilibria(p *plot.Plot, eqs []analysis.Equilibrium) error {
	var stable, unstable []analysis.Point
	for _, e := range eqs {
		if !inFrame(e.Point) {
			continue
		}
		if e.Kind == analysis.StableNode || e.Kind == analysis.StableFocus {
			stable = append(stable, e.Point)
		} else {
			unstable = append(unstable, e.Point)
		}
	}

	for _, set := range []struct {
		name  string
		pts   []analysis.Point
		glyph draw.GlyphDrawer
	}{
		{"stable", stable, draw.CircleGlyph{}},
		{"unstable", unstable, draw.RingGlyph{}},
	} {
		if len(set.pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(points(set.pts))
		if err != nil {
			return fmt.Errorf("%s equilibria: %w", set.name, err)
		}
		s.Shape = set.glyph
		s.Color = color.Black
		s.Radius = vg.Points(4)
		p.Add(s)
		p.Legend.Add(set.name+" equilibrium", s)
	}
	return nil
}

// WritePNG encodes the portrait as a square PNG image of the given size.
func WritePNG(w io.Writer, pt *analysis.Portrait, size vg.Length, opts Options) error {
	p, err := Plot(pt, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(size, size, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func points(pts []analysis.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for k, pt := range pts {
		xys[k].X = pt.B
		xys[k].Y = pt.I
	}
	return xys
}

func inFrame(pt analysis.Point) bool {
	return !math.IsNaN(pt.B) && !math.IsNaN(pt.I) &&
		pt.B >= analysis.PlotMin && pt.B <= analysis.PlotMax &&
		pt.I >= analysis.PlotMin && pt.I <= analysis.PlotMax
}
