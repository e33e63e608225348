// Package visualize draws labelled 2-D datasets with gonum/plot.
package visualize

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/singlelayer/pkg/errors"
)

// Size is the width and height of saved plots.
const Size = 6 * vg.Inch

// ScatterPlot builds a plot with one scatter series per distinct label.
// Only the first two columns of X are drawn.
func ScatterPlot(title string, X mat.Matrix, labels []int) (*plot.Plot, error) {
	r, c := X.Dims()
	if c < 2 {
		return nil, errors.NewDimensionError("visualize.ScatterPlot", 2, c, 1)
	}
	if len(labels) != r {
		return nil, errors.NewDimensionError("visualize.ScatterPlot", r, len(labels), 0)
	}

	groups := make(map[int]plotter.XYs)
	for i, l := range labels {
		groups[l] = append(groups[l], plotter.XY{X: X.At(i, 0), Y: X.At(i, 1)})
	}
	keys := lo.Keys(groups)
	slices.Sort(keys)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x1"
	p.Y.Label.Text = "x2"
	p.Add(plotter.NewGrid())

	for i, k := range keys {
		s, err := plotter.NewScatter(groups[k])
		if err != nil {
			return nil, errors.Wrapf(err, "scatter for class %d", k)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = plotutil.Shape(i)
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("class %d", k), s)
	}
	return p, nil
}

// SaveScatter writes ScatterPlot to path. The format follows the file
// extension (.png, .svg, .pdf, ...).
func SaveScatter(path, title string, X mat.Matrix, labels []int) error {
	p, err := ScatterPlot(title, X, labels)
	if err != nil {
		return err
	}
	if err := p.Save(Size, Size, path); err != nil {
		return errors.Wrapf(err, "save plot to %s", path)
	}
	return nil
}
