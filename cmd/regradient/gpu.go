//go:build !nogpu

package main

import (
	"github.com/gogpu/regradient"
	gpuimpl "github.com/gogpu/regradient/internal/gpu"
)

// enableGPU registers the GPU gradient kernel. Without a usable device the
// kernel stays registered but declines every row.
func enableGPU() error {
	return regradient.RegisterAccelerator(&gpuimpl.GradientKernel{})
}
