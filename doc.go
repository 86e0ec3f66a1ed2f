// Package regradient builds multi-stop color gradients and renders them to
// pixel buffers.
//
// # Overview
//
// A Gradient is an ordered list of stops (position in [0, 1], straight-alpha
// color, stable id) plus a target width and height. Evaluate turns it into a
// Pixmap; every row of the result is identical, column x sampling the
// gradient at t = x / (width-1).
//
// # Quick Start
//
//	import "github.com/gogpu/regradient"
//
//	g := regradient.NewGradient() // white at 0, black at 1, 256x64
//	id := g.AddStop(regradient.Red, 0.5)
//	g.MoveStop(id, 0.25)
//
//	pm, err := regradient.Evaluate(g)
//	if err != nil {
//	    return err
//	}
//	pm.SavePNG("gradient.png")
//
// # Sampling
//
// At or below the first stop the first color is used, at or above the last
// stop the last color. In between, the two stops bracketing t are blended
// channel by channel. Stops sharing a position form a hard edge. Evaluation
// is deterministic.
//
// # Acceleration
//
// Import github.com/gogpu/regradient/gpu to register a GPU compute kernel.
// Rows it cannot handle, or any GPU failure, fall back to the CPU path with
// identical results up to rounding.
//
// # Persistence
//
// Package asset reads and writes gradients as JSON, TOML or YAML records.
package regradient

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
