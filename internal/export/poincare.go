package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/plasmadyn/fluxgrid/internal/fcimaps"
)

// WritePoincarePNG renders the traced surface crossings at one y-slice as a
// scatter plot, one series per surface.
func WritePoincarePNG(path string, sp *fcimaps.SurfacePoints, ySlice int) error {
	if ySlice < 0 || ySlice >= sp.NY {
		return fmt.Errorf("y-slice %d out of range [0, %d)", ySlice, sp.NY)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Poincare section, y-slice %d", ySlice)
	p.X.Label.Text = "R"
	p.Y.Label.Text = "Z"

	for s, label := range sp.Labels {
		pts := make(plotter.XYs, 0, sp.Revs)
		for rev := 0; rev < sp.Revs; rev++ {
			pt := sp.Points[rev*sp.NY+ySlice][s]
			pts = append(pts, plotter.XY{X: pt.X, Y: pt.Z})
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("surface %d scatter: %w", s, err)
		}
		sc.GlyphStyle.Radius = vg.Points(1.5)
		sc.GlyphStyle.Color = plotutil.Color(s)
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("psi=%.2f", label), sc)
	}
	p.Legend.Top = true
	p.Legend.Left = false

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
