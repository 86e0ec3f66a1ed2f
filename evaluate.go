package regradient

import (
	"errors"
	"sort"

	"github.com/gogpu/regradient/internal/color"
	"github.com/gogpu/regradient/internal/parallel"
)

// parallelThreshold is the pixel count from which evaluation is split into
// bands on the worker pool.
const parallelThreshold = 64 * 1024

// SampleT returns the sample point of column x in an output of the given
// width: x / (width-1), so column 0 samples t=0 and the last column samples
// t=1. A single-column output samples t=0.
func SampleT(x, width int) float64 {
	if width <= 1 {
		return 0
	}
	return float64(x) / float64(width-1)
}

// SampleStops returns the gradient color at t for stops sorted ascending by
// position. It returns Transparent for an empty slice and the only color for
// a single stop.
//
// At or below the first stop the first color is returned; at or above the
// last stop the last color is returned. In between, the bracketing pair
// a.Position <= t < b.Position is found by binary search and blended.
func SampleStops(stops []Stop, t float64, mode Interpolation) RGBA {
	if len(stops) == 0 {
		return Transparent
	}
	first, last := stops[0], stops[len(stops)-1]
	if len(stops) == 1 || t <= first.Position {
		return first.Color
	}
	if t >= last.Position {
		return last.Color
	}

	// First stop strictly after t. With first < t < last, 1 <= idx < len.
	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Position > t
	})
	a, b := stops[idx-1], stops[idx]

	// Coincident stops
	if b.Position == a.Position {
		return a.Color
	}

	localT := (t - a.Position) / (b.Position - a.Position)
	return blend(a.Color, b.Color, localT, mode)
}

func blend(a, b RGBA, t float64, mode Interpolation) RGBA {
	if mode == InterpolateLinear {
		c := color.LerpLinear(
			color.Color{R: a.R, G: a.G, B: a.B, A: a.A},
			color.Color{R: b.R, G: b.G, B: b.B, A: b.A},
			t,
		)
		return RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return a.Lerp(b, t)
}

// EvaluateRow returns the colors of one output row of g. Every row of an
// evaluated gradient is identical, so this is the whole result in one
// dimension. Errors are ErrInvalidDimensions or ErrInsufficientStops.
func EvaluateRow(g *Gradient, opts ...EvalOption) ([]RGBA, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	o := buildEvalOptions(opts)
	row := make([]RGBA, g.width)
	forBands(g.width, o.parallel && g.width*g.height >= parallelThreshold, func(x0, x1 int) {
		for x := x0; x < x1; x++ {
			row[x] = SampleStops(g.stops, SampleT(x, g.width), o.interpolation)
		}
	})
	return row, nil
}

// Evaluate renders g into a new Pixmap of g.Width() x g.Height().
//
// Evaluation is a pure function of the gradient's stops, dimensions and
// options: evaluating the same state twice gives byte-identical pixmaps.
// A gradient with fewer than two stops or a non-positive dimension is
// refused with ErrInsufficientStops or ErrInvalidDimensions and no pixmap.
//
// When an accelerator is registered and enabled, the row is computed on it;
// on ErrFallbackToCPU or any other error the CPU path is used instead.
func Evaluate(g *Gradient, opts ...EvalOption) (*Pixmap, error) {
	if err := g.Validate(); err != nil {
		Logger().Debug("evaluation skipped", "err", err)
		return nil, err
	}
	o := buildEvalOptions(opts)
	pm := NewPixmap(g.width, g.height)
	useBands := o.parallel && g.width*g.height >= parallelThreshold

	if !(o.gpu && evaluateAccelerated(g, o, pm)) {
		forBands(g.width, useBands, func(x0, x1 int) {
			for x := x0; x < x1; x++ {
				c := SampleStops(g.stops, SampleT(x, g.width), o.interpolation)
				pm.setNRGBA(x, 0, c.NRGBA())
			}
		})
	}

	pm.broadcastFirstRow(useBands)
	Logger().Debug("gradient evaluated",
		"width", g.width, "height", g.height, "stops", len(g.stops),
		"interpolation", o.interpolation.String())
	return pm, nil
}

// evaluateAccelerated writes row 0 of pm through the registered accelerator.
// It reports false when the CPU path must run instead.
func evaluateAccelerated(g *Gradient, o evalOptions, pm *Pixmap) bool {
	a := Accelerator()
	if a == nil || !a.CanAccelerate(len(g.stops), o.interpolation) {
		return false
	}
	target := RowTarget{Data: pm.data[:g.width*4], Width: g.width}
	err := a.EvaluateRow(target, g.stops, o.interpolation)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrFallbackToCPU) {
		Logger().Warn("accelerator failed, using CPU", "accelerator", a.Name(), "err", err)
	}
	return false
}

// forBands calls fn over [0, n) either once or split into bands executed on
// the shared worker pool.
func forBands(n int, split bool, fn func(lo, hi int)) {
	if !split {
		fn(0, n)
		return
	}
	parallel.Default().ForBands(n, fn)
}
