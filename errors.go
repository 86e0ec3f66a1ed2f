package regradient

import "errors"

// Evaluation and editing errors. All of them are reported to the caller;
// none are retried, since every operation is deterministic.
var (
	// ErrInvalidDimensions is returned when the width or height of a
	// gradient is not positive. Evaluation is skipped.
	ErrInvalidDimensions = errors.New("regradient: invalid dimensions")

	// ErrInsufficientStops is returned when a gradient has fewer than two
	// stops. Evaluation is skipped.
	ErrInsufficientStops = errors.New("regradient: insufficient stops")

	// ErrStopNotFound is returned when an edit references an unknown stop id.
	// The gradient is left unchanged.
	ErrStopNotFound = errors.New("regradient: stop not found")

	// ErrDuplicateStopID is returned when restoring a gradient whose stops
	// share an id.
	ErrDuplicateStopID = errors.New("regradient: duplicate stop id")
)
