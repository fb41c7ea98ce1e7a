package triangle

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
)

func (m *SwapchainManager) createCommandPool(ctx *Context) error {
	pool, _, err := ctx.Device.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: *ctx.QueueIndices.GraphicsFamily,
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create command pool"), ErrResourceCreation)
	}

	m.CommandPool = pool
	return nil
}

// createCommandBuffers allocates one primary command buffer per
// swapchain image and records the whole frame into it up front: begin
// the render pass with a black clear, bind the pipeline, draw the three
// hardcoded vertices. The buffers are never re-recorded afterwards.
func (m *SwapchainManager) createCommandBuffers(ctx *Context) error {
	buffers, _, err := ctx.Device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        m.CommandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: len(m.Framebuffers),
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, "allocate command buffers"), ErrResourceCreation)
	}
	m.CommandBuffers = buffers

	for bufferIndex, buffer := range m.CommandBuffers {
		_, err = buffer.Begin(core1_0.CommandBufferBeginInfo{})
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "begin command buffer %d", bufferIndex), ErrResourceCreation)
		}

		err = buffer.CmdBeginRenderPass(core1_0.SubpassContentsInline,
			core1_0.RenderPassBeginInfo{
				RenderPass:  m.RenderPass,
				Framebuffer: m.Framebuffers[bufferIndex],
				RenderArea: core1_0.Rect2D{
					Offset: core1_0.Offset2D{X: 0, Y: 0},
					Extent: m.Extent,
				},
				ClearValues: []core1_0.ClearValue{
					core1_0.ClearValueFloat{0, 0, 0, 1},
				},
			})
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "begin render pass on command buffer %d", bufferIndex), ErrResourceCreation)
		}

		buffer.CmdBindPipeline(core1_0.PipelineBindPointGraphics, m.Pipeline)
		buffer.CmdDraw(3, 1, 0, 0)
		buffer.CmdEndRenderPass()

		_, err = buffer.End()
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "end command buffer %d", bufferIndex), ErrResourceCreation)
		}
	}

	return nil
}
