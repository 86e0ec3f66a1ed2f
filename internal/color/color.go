// Package color provides the sRGB transfer functions used when gradients
// are blended in linear light.
package color

// Color represents a straight-alpha color with float64 components in [0,1].
// RGB components are sRGB-encoded or linear depending on context.
// Alpha is always linear (never gamma-encoded).
type Color struct {
	R, G, B, A float64
}
