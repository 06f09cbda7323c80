package transcript

import (
	"errors"
	"fmt"
	"image"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"circuit-sketch/pkg/colorutil"
)

// ErrNoSolutions is returned when a report has no numeric solutions.
var ErrNoSolutions = errors.New("transcript: no solutions")

// SolutionVector returns the solutions as a column vector in report order.
func (r Report) SolutionVector() (*mat.VecDense, error) {
	if len(r.Solutions) == 0 {
		return nil, ErrNoSolutions
	}
	data := make([]float64, len(r.Solutions))
	for i, s := range r.Solutions {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("solution %d %q: %w", i+1, s, err)
		}
		data[i] = f
	}
	return mat.NewVecDense(len(data), data), nil
}

// Stats summarises a solution vector.
type Stats struct {
	Count int
	Norm  float64 // Euclidean norm
	Min   float64
	Max   float64
	Mean  float64
}

// SolutionStats computes Stats for v.
func SolutionStats(v *mat.VecDense) (Stats, error) {
	if v == nil || v.Len() == 0 {
		return Stats{}, ErrNoSolutions
	}
	n := v.Len()
	return Stats{
		Count: n,
		Norm:  mat.Norm(v, 2),
		Min:   mat.Min(v),
		Max:   mat.Max(v),
		Mean:  mat.Sum(v) / float64(n),
	}, nil
}

func (s Stats) String() string {
	return fmt.Sprintf("%d unknowns, |x| = %.4f, min %.4f, max %.4f, mean %.4f",
		s.Count, s.Norm, s.Min, s.Max, s.Mean)
}

// At 72 dpi one point is one pixel.
const pixelDPI = 72

// Chart draws the values as a bar chart of width x height pixels, one bar
// per unknown labelled x1, x2, ...
func Chart(values []float64, width, height int) (image.Image, error) {
	if len(values) == 0 {
		return nil, ErrNoSolutions
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("chart size %dx%d: must be positive", width, height)
	}

	p := plot.New()
	p.Title.Text = "Solutions"
	p.Y.Label.Text = "Value"

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(float64(width)/float64(2*len(values)+1)))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = colorutil.GuideBlue
	bars.LineStyle.Width = 0
	p.Add(bars, plotter.NewGrid())

	labels := make([]string, len(values))
	for i := range labels {
		labels[i] = "x" + strconv.Itoa(i+1)
	}
	p.NominalX(labels...)

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(width), vg.Length(height)),
		vgimg.UseDPI(pixelDPI),
	)
	p.Draw(draw.New(c))
	return c.Image(), nil
}

// ChartVector is Chart over a solution vector.
func ChartVector(v *mat.VecDense, width, height int) (image.Image, error) {
	if v == nil || v.Len() == 0 {
		return nil, ErrNoSolutions
	}
	values := make([]float64, v.Len())
	for i := range values {
		values[i] = v.AtVec(i)
	}
	return Chart(values, width, height)
}
