package triangle

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// FrameSync owns the per-slot synchronization primitives and performs
// the driver calls behind the frame protocol: one image-available
// semaphore, one render-finished semaphore, and one in-flight fence per
// slot, plus the queues and command buffers submissions run against.
type FrameSync struct {
	device        core1_0.Device
	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue

	swapchainExtension khr_swapchain.Extension
	swapchain          khr_swapchain.Swapchain
	commandBuffers     []core1_0.CommandBuffer

	imageAvailableSemaphores []core1_0.Semaphore
	renderFinishedSemaphores []core1_0.Semaphore
	inFlightFences           []core1_0.Fence
}

// NewFrameSync creates framesInFlight semaphore pairs and fences against
// the context's device. The fences start signaled so the first wait on
// each slot passes immediately. Command buffers are taken from the
// manager and indexed by swapchain image index.
func NewFrameSync(ctx *Context, manager *SwapchainManager, framesInFlight int) (*FrameSync, error) {
	sync := &FrameSync{
		device:        ctx.Device,
		graphicsQueue: ctx.GraphicsQueue,
		presentQueue:  ctx.PresentQueue,

		swapchainExtension: manager.Extension,
		swapchain:          manager.Swapchain,
		commandBuffers:     manager.CommandBuffers,
	}

	for i := 0; i < framesInFlight; i++ {
		imageAvailable, _, err := ctx.Device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			sync.Destroy()
			return nil, errors.Mark(errors.Wrapf(err, "create image-available semaphore %d", i), ErrResourceCreation)
		}
		sync.imageAvailableSemaphores = append(sync.imageAvailableSemaphores, imageAvailable)

		renderFinished, _, err := ctx.Device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			sync.Destroy()
			return nil, errors.Mark(errors.Wrapf(err, "create render-finished semaphore %d", i), ErrResourceCreation)
		}
		sync.renderFinishedSemaphores = append(sync.renderFinishedSemaphores, renderFinished)

		fence, _, err := ctx.Device.CreateFence(nil, core1_0.FenceCreateInfo{
			Flags: core1_0.FenceCreateSignaled,
		})
		if err != nil {
			sync.Destroy()
			return nil, errors.Mark(errors.Wrapf(err, "create in-flight fence %d", i), ErrResourceCreation)
		}
		sync.inFlightFences = append(sync.inFlightFences, fence)
	}

	return sync, nil
}

func (f *FrameSync) WaitFence(slot int) error {
	_, err := f.device.WaitForFences(true, common.NoTimeout, []core1_0.Fence{f.inFlightFences[slot]})
	return err
}

func (f *FrameSync) ResetFence(slot int) error {
	_, err := f.device.ResetFences([]core1_0.Fence{f.inFlightFences[slot]})
	return err
}

func (f *FrameSync) AcquireImage(slot int) (int, error) {
	imageIndex, _, err := f.swapchain.AcquireNextImage(common.NoTimeout, f.imageAvailableSemaphores[slot], nil)
	return imageIndex, err
}

func (f *FrameSync) SubmitCommands(slot, imageIndex int) error {
	_, err := f.graphicsQueue.Submit(f.inFlightFences[slot], []core1_0.SubmitInfo{
		{
			WaitSemaphores:   []core1_0.Semaphore{f.imageAvailableSemaphores[slot]},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{f.commandBuffers[imageIndex]},
			SignalSemaphores: []core1_0.Semaphore{f.renderFinishedSemaphores[slot]},
		},
	})
	return err
}

func (f *FrameSync) PresentImage(slot, imageIndex int) error {
	_, err := f.swapchainExtension.QueuePresent(f.presentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{f.renderFinishedSemaphores[slot]},
		Swapchains:     []khr_swapchain.Swapchain{f.swapchain},
		ImageIndices:   []int{imageIndex},
	})
	return err
}

// Destroy releases the slot primitives. The device must be idle first.
// Safe to call on a partially built FrameSync.
func (f *FrameSync) Destroy() {
	for _, fence := range f.inFlightFences {
		fence.Destroy(nil)
	}
	f.inFlightFences = nil

	for _, semaphore := range f.renderFinishedSemaphores {
		semaphore.Destroy(nil)
	}
	f.renderFinishedSemaphores = nil

	for _, semaphore := range f.imageAvailableSemaphores {
		semaphore.Destroy(nil)
	}
	f.imageAvailableSemaphores = nil
}
