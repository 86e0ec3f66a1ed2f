//go:build !nogpu

// Package gpu registers the GPU gradient kernel with regradient.
//
// If GPU initialization fails (no Vulkan available), the kernel stays
// registered but declines every row and evaluation runs on the CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/regradient/gpu" // enable GPU evaluation
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/regradient"
	gpuimpl "github.com/gogpu/regradient/internal/gpu"
)

func init() {
	if err := regradient.RegisterAccelerator(&gpuimpl.GradientKernel{}); err != nil {
		regradient.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider makes the GPU kernel use a shared device from an
// external provider (e.g., gogpu) instead of creating its own instance.
//
// The provider must also expose HalDevice() and HalQueue() for direct HAL
// access.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return regradient.SetAcceleratorDeviceProvider(provider)
}
