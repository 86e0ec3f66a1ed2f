//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/regradient"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

//go:embed shaders/gradient.wgsl
var gradientShaderWGSL string

// workgroupSize matches @workgroup_size in shaders/gradient.wgsl.
const workgroupSize = 64

// maxKernelWidth is the widest row whose byte size fits the u32 indexing
// of the shader.
const maxKernelWidth = math.MaxUint32 / 4

// fenceTimeout bounds the wait for one row dispatch.
const fenceTimeout = 5 * time.Second

// GradientKernel evaluates gradient rows with a wgpu/hal compute shader.
// It implements the regradient.GPUAccelerator interface.
//
// A row is produced by a sequence of compute passes recorded into a single
// command encoder: one per adjacent stop pair plus a first and a last fill.
// One submit and one fence wait per row.
type GradientKernel struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

var _ regradient.GPUAccelerator = (*GradientKernel)(nil)

// Name returns the accelerator name.
func (k *GradientKernel) Name() string { return "gradient-gpu" }

// SetLogger receives the logger from regradient.SetLogger.
func (k *GradientKernel) SetLogger(l *slog.Logger) { setLogger(l) }

// Init creates a GPU device and the compute pipeline. A missing GPU is not
// an error: the kernel stays registered and reports that it cannot
// accelerate, so evaluation runs on the CPU.
func (k *GradientKernel) Init() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.initGPU(); err != nil {
		slogger().Warn("gpu: init failed, using CPU evaluation", "err", err)
	}
	return nil
}

// Ready reports whether the GPU pipeline is available.
func (k *GradientKernel) Ready() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.gpuReady
}

// Close releases the pipeline and, unless shared, the device.
func (k *GradientKernel) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.destroyPipeline()
	if !k.externalDevice {
		if k.device != nil {
			k.device.Destroy()
		}
		if k.instance != nil {
			k.instance.Destroy()
		}
	}
	k.device = nil
	k.instance = nil
	k.queue = nil
	k.gpuReady = false
	k.externalDevice = false
}

// CanAccelerate reports whether the kernel handles n stops blended with
// mode. Only straight sRGB blending is implemented in the shader.
func (k *GradientKernel) CanAccelerate(n int, mode regradient.Interpolation) bool {
	if mode != regradient.InterpolateSRGB || n < 2 || n > MaxKernelStops {
		return false
	}
	return k.Ready()
}

// SetDeviceProvider switches the kernel to a shared GPU device. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func (k *GradientKernel) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	k.destroyPipeline()
	if !k.externalDevice && k.device != nil {
		k.device.Destroy()
	}
	if k.instance != nil {
		k.instance.Destroy()
		k.instance = nil
	}

	k.device = device
	k.queue = queue
	k.externalDevice = true

	if err := k.createPipeline(); err != nil {
		k.gpuReady = false
		return fmt.Errorf("gpu: create pipeline with shared device: %w", err)
	}
	k.gpuReady = true
	slogger().Info("gpu: switched to shared GPU device")
	return nil
}

// EvaluateRow dispatches the pass sequence for stops and reads the row back
// into target.
func (k *GradientKernel) EvaluateRow(target regradient.RowTarget, stops []regradient.Stop, mode regradient.Interpolation) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.gpuReady || mode != regradient.InterpolateSRGB || len(stops) > MaxKernelStops ||
		target.Width > maxKernelWidth {
		return regradient.ErrFallbackToCPU
	}
	if target.Width <= 0 || len(target.Data) < target.Width*4 {
		return fmt.Errorf("gpu: target too small for %d pixels", target.Width)
	}
	passes := planPasses(stops, target.Width)
	slogger().Debug("gpu: dispatch gradient row", "width", target.Width, "passes", len(passes))
	return k.dispatch(target, passes)
}

func (k *GradientKernel) dispatch(target regradient.RowTarget, passes []passParams) error {
	w := uint32(target.Width) //nolint:gosec // width always fits uint32
	pixelBufSize := uint64(w) * 4

	storageBuf, err := k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gradient_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create storage buffer: %w", err)
	}
	defer k.device.DestroyBuffer(storageBuf)

	stagingBuf, err := k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gradient_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer k.device.DestroyBuffer(stagingBuf)

	uniformBufs, bindGroups, err := k.createPassBindings(passes, storageBuf, pixelBufSize)
	defer k.cleanupBindings(uniformBufs, bindGroups)
	if err != nil {
		return err
	}

	encoder, err := k.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gradient_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gradient_row"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	groups := (w + workgroupSize - 1) / workgroupSize
	for _, bg := range bindGroups {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "gradient_pass"})
		pass.SetPipeline(k.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(groups, 1, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer k.device.FreeCommandBuffer(cmdBuf)

	fence, err := k.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer k.device.DestroyFence(fence)
	if err := k.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := waitError(k.device.Wait(fence, 1, fenceTimeout)); err != nil {
		return err
	}

	readback := make([]byte, pixelBufSize)
	if err := k.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackPixelsFromGPU(readback, target.Data, target.Width)
	return nil
}

// errFenceTimeout is returned when a row dispatch does not finish within
// fenceTimeout.
var errFenceTimeout = fmt.Errorf("gpu: fence wait timed out after %v", fenceTimeout)

// waitError converts the result of hal.Device.Wait into an error.
func waitError(ok bool, err error) error {
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return errFenceTimeout
	}
	return nil
}

// createPassBindings creates one uniform buffer and bind group per pass.
// All bind groups share the pixel storage buffer.
func (k *GradientKernel) createPassBindings(
	passes []passParams, storageBuf hal.Buffer, pixelBufSize uint64,
) ([]hal.Buffer, []hal.BindGroup, error) {
	uniformBufs := make([]hal.Buffer, 0, len(passes))
	bindGroups := make([]hal.BindGroup, 0, len(passes))

	for i, p := range passes {
		ub, err := k.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "gradient_params", Size: passParamsSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return uniformBufs, bindGroups, fmt.Errorf("create uniform buffer %d: %w", i, err)
		}
		uniformBufs = append(uniformBufs, ub)
		k.queue.WriteBuffer(ub, 0, p.encode())

		bg, err := k.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "gradient_bind", Layout: k.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: passParamsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
			},
		})
		if err != nil {
			return uniformBufs, bindGroups, fmt.Errorf("create bind group %d: %w", i, err)
		}
		bindGroups = append(bindGroups, bg)
	}

	return uniformBufs, bindGroups, nil
}

func (k *GradientKernel) cleanupBindings(uniformBufs []hal.Buffer, bindGroups []hal.BindGroup) {
	for _, bg := range bindGroups {
		if bg != nil {
			k.device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range uniformBufs {
		if ub != nil {
			k.device.DestroyBuffer(ub)
		}
	}
}

func (k *GradientKernel) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	k.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	k.device = openDev.Device
	k.queue = openDev.Queue
	if err := k.createPipeline(); err != nil {
		k.device.Destroy()
		k.device = nil
		k.queue = nil
		return fmt.Errorf("create pipeline: %w", err)
	}
	k.gpuReady = true
	slogger().Info("gpu: gradient kernel initialized", "adapter", selected.Info.Name)
	return nil
}

// compileShader compiles the embedded WGSL to SPIR-V words.
func compileShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(gradientShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("compile gradient shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

func (k *GradientKernel) createPipeline() error {
	code, err := compileShader()
	if err != nil {
		return err
	}
	shader, err := k.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "gradient",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	k.shader = shader

	bindLayout, err := k.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gradient_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	k.bindLayout = bindLayout

	pipeLayout, err := k.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "gradient_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{k.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	k.pipeLayout = pipeLayout

	pipeline, err := k.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "gradient_pipeline", Layout: k.pipeLayout,
		Compute: hal.ComputeState{Module: k.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	k.pipeline = pipeline

	return nil
}

func (k *GradientKernel) destroyPipeline() {
	if k.device == nil {
		return
	}
	if k.pipeline != nil {
		k.device.DestroyComputePipeline(k.pipeline)
		k.pipeline = nil
	}
	if k.pipeLayout != nil {
		k.device.DestroyPipelineLayout(k.pipeLayout)
		k.pipeLayout = nil
	}
	if k.bindLayout != nil {
		k.device.DestroyBindGroupLayout(k.bindLayout)
		k.bindLayout = nil
	}
	if k.shader != nil {
		k.device.DestroyShaderModule(k.shader)
		k.shader = nil
	}
}
