package regradient

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the accelerator cannot handle this evaluation.
// The caller transparently falls back to CPU evaluation.
var ErrFallbackToCPU = errors.New("regradient: falling back to CPU evaluation")

// RowTarget is the destination of an accelerated row evaluation: Width
// pixels of 8-bit straight-alpha RGBA, 4 bytes per pixel.
type RowTarget struct {
	Data  []uint8
	Width int
}

// GPUAccelerator is an optional GPU provider for gradient evaluation.
//
// When registered via RegisterAccelerator, Evaluate computes the gradient
// row on the accelerator first. If it returns ErrFallbackToCPU or any
// error, evaluation transparently falls back to the CPU.
//
// Implementations are provided by backend packages. Users opt in via blank
// import:
//
//	import _ "github.com/gogpu/regradient/gpu" // enables GPU evaluation
type GPUAccelerator interface {
	// Name returns the accelerator name (e.g., "gradient-gpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether a gradient with n stops blended with
	// mode can be evaluated. This is a fast check used to skip the
	// accelerator entirely.
	CanAccelerate(n int, mode Interpolation) bool

	// EvaluateRow writes one gradient row into target. stops are sorted
	// ascending by position and must not be modified.
	EvaluateRow(target RowTarget, stops []Stop, mode Interpolation) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a GPU device with the host application instead of creating one.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers a GPU accelerator.
//
// Only one accelerator can be registered. Subsequent calls replace and
// close the previous one. If Init fails, the accelerator is not registered
// and the error is returned.
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("regradient: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	Logger().Info("accelerator registered", "name", a.Name())
	return nil
}

// UnregisterAccelerator closes and removes the registered accelerator.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// Accelerator returns the currently registered accelerator, or nil if none.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator. If no accelerator is registered or it does not support
// device sharing, this is a no-op.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
