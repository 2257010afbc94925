package export

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/plasmadyn/fluxgrid/internal/fcimaps"
)

// WritePoincareHTML renders the traced surface crossings at one y-slice as
// an interactive scatter chart, coloured by surface label.
func WritePoincareHTML(path string, sp *fcimaps.SurfacePoints, ySlice int) error {
	if ySlice < 0 || ySlice >= sp.NY {
		return fmt.Errorf("y-slice %d out of range [0, %d)", ySlice, sp.NY)
	}

	data := make([]opts.ScatterData, 0, sp.Revs*len(sp.Labels))
	for rev := 0; rev < sp.Revs; rev++ {
		row := sp.Points[rev*sp.NY+ySlice]
		for s, pt := range row {
			data = append(data, opts.ScatterData{Value: []interface{}{pt.X, pt.Z, sp.Labels[s]}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Poincare section", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Poincare section",
			Subtitle: fmt.Sprintf("y-slice=%d surfaces=%d points=%d", ySlice, len(sp.Labels), len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "R", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Z", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("surfaces", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}
