//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/gogpu/regradient"
)

// MaxKernelStops bounds the number of stops evaluated on the GPU; each stop
// pair costs one compute pass. Larger gradients run on the CPU.
const MaxKernelStops = 256

// Pass kinds, matching the kind field of shaders/gradient.wgsl.
const (
	passFill    uint32 = 0
	passSegment uint32 = 1
)

// passParamsSize is the size of PassParams in the shader's uniform layout:
// eight 4-byte scalars followed by two vec4<f32>.
const passParamsSize = 64

// passParams is one compute pass over the columns [XLo, XHi) of the row.
// Lo and Hi are the segment's stop positions, used only for the blend
// factor; which columns a pass covers is decided on the host.
type passParams struct {
	Width  uint32
	Kind   uint32
	XLo    uint32
	XHi    uint32
	Lo     float32
	Hi     float32
	ColorA [4]float32
	ColorB [4]float32
}

// planPasses returns the passes that reproduce the CPU bracket rule for
// stops sorted ascending by position: a first-color fill of the whole row,
// one blend per adjacent pair with distinct positions, then a last-color
// fill. Column ranges are computed with regradient.SampleT in float64, so
// every column lands in the same segment as on the CPU.
func planPasses(stops []regradient.Stop, width int) []passParams {
	if len(stops) == 0 || width <= 0 {
		return nil
	}
	w := uint32(width) //nolint:gosec // width is validated positive and small
	first := stops[0].Position
	last := stops[len(stops)-1]

	// Columns at or below the first stop keep the first color.
	xFirst := firstColumn(width, func(t float64) bool { return t > first })

	passes := make([]passParams, 0, len(stops)+1)
	passes = append(passes, passParams{
		Width: w, Kind: passFill, XLo: 0, XHi: w,
		ColorA: rgba32(stops[0].Color),
	})
	for i := 0; i+1 < len(stops); i++ {
		a, b := stops[i], stops[i+1]
		if a.Position == b.Position {
			continue
		}
		x0 := max(xFirst, firstColumn(width, func(t float64) bool { return t >= a.Position }))
		x1 := firstColumn(width, func(t float64) bool { return t >= b.Position })
		if x0 >= x1 {
			continue
		}
		passes = append(passes, passParams{
			Width: w, Kind: passSegment, XLo: uint32(x0), XHi: uint32(x1), //nolint:gosec // bounded by width
			Lo: float32(a.Position), Hi: float32(b.Position),
			ColorA: rgba32(a.Color), ColorB: rgba32(b.Color),
		})
	}
	xLast := max(xFirst, firstColumn(width, func(t float64) bool { return t >= last.Position }))
	if xLast < width {
		passes = append(passes, passParams{
			Width: w, Kind: passFill, XLo: uint32(xLast), XHi: w, //nolint:gosec // bounded by width
			ColorA: rgba32(last.Color),
		})
	}
	return passes
}

// firstColumn returns the smallest column whose sample point satisfies
// pred, or width if none does. pred must be monotonic in t.
func firstColumn(width int, pred func(t float64) bool) int {
	return sort.Search(width, func(x int) bool {
		return pred(regradient.SampleT(x, width))
	})
}

func rgba32(c regradient.RGBA) [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// encode serializes p in the uniform buffer layout.
func (p passParams) encode() []byte {
	buf := make([]byte, passParamsSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], p.Width)
	le.PutUint32(buf[4:], p.Kind)
	le.PutUint32(buf[8:], p.XLo)
	le.PutUint32(buf[12:], p.XHi)
	le.PutUint32(buf[16:], math.Float32bits(p.Lo))
	le.PutUint32(buf[20:], math.Float32bits(p.Hi))
	// 24..32 padding to the vec4 alignment.
	for i := range 4 {
		le.PutUint32(buf[32+i*4:], math.Float32bits(p.ColorA[i]))
		le.PutUint32(buf[48+i*4:], math.Float32bits(p.ColorB[i]))
	}
	return buf
}

// unpackPixelsFromGPU copies packed r|g<<8|b<<16|a<<24 words into RGBA bytes.
func unpackPixelsFromGPU(packed []byte, dst []uint8, pixelCount int) {
	for i := 0; i < pixelCount; i++ {
		val := binary.LittleEndian.Uint32(packed[i*4:])
		dst[i*4+0] = uint8(val & 0xFF)         //nolint:gosec // masked to 8 bits
		dst[i*4+1] = uint8((val >> 8) & 0xFF)  //nolint:gosec // masked to 8 bits
		dst[i*4+2] = uint8((val >> 16) & 0xFF) //nolint:gosec // masked to 8 bits
		dst[i*4+3] = uint8((val >> 24) & 0xFF) //nolint:gosec // masked to 8 bits
	}
}
