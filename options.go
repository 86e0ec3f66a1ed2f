package regradient

// Interpolation selects the space in which neighbouring stops are blended.
type Interpolation int

const (
	// InterpolateSRGB blends the stored channel values directly, in straight
	// alpha. This is the default.
	InterpolateSRGB Interpolation = iota

	// InterpolateLinear converts RGB to linear light before blending and back
	// to sRGB afterwards. Alpha is blended directly.
	InterpolateLinear
)

// String returns the interpolation name.
func (m Interpolation) String() string {
	switch m {
	case InterpolateSRGB:
		return "srgb"
	case InterpolateLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// EvalOption configures a single evaluation.
//
// Example:
//
//	pm, err := regradient.Evaluate(g,
//	    regradient.WithInterpolation(regradient.InterpolateLinear),
//	    regradient.WithGPU(false))
type EvalOption func(*evalOptions)

type evalOptions struct {
	interpolation Interpolation
	gpu           bool
	parallel      bool
}

func defaultEvalOptions() evalOptions {
	return evalOptions{
		interpolation: InterpolateSRGB,
		gpu:           true,
		parallel:      true,
	}
}

func buildEvalOptions(opts []EvalOption) evalOptions {
	o := defaultEvalOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithInterpolation sets the blending space.
func WithInterpolation(m Interpolation) EvalOption {
	return func(o *evalOptions) {
		o.interpolation = m
	}
}

// WithGPU enables or disables the registered accelerator for this call.
// It has no effect when no accelerator is registered.
func WithGPU(enabled bool) EvalOption {
	return func(o *evalOptions) {
		o.gpu = enabled
	}
}

// WithParallel enables or disables splitting large outputs across the
// internal worker pool. Output is identical either way.
func WithParallel(enabled bool) EvalOption {
	return func(o *evalOptions) {
		o.parallel = enabled
	}
}
