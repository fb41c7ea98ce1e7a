package triangle

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// createRenderPass builds the single-subpass render pass every
// framebuffer and command buffer references: one color attachment
// cleared on load and handed to the presentation engine on store, with
// an external dependency holding color-attachment output until the
// attachment is available.
func (m *SwapchainManager) createRenderPass(ctx *Context) error {
	renderPass, _, err := ctx.Device.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         m.ImageFormat,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
			},
		},
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				DstAccessMask: core1_0.AccessColorAttachmentWrite,
			},
		},
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create render pass"), ErrResourceCreation)
	}

	m.RenderPass = renderPass
	return nil
}

func (m *SwapchainManager) createGraphicsPipeline(ctx *Context) error {
	// Load vertex shader
	vertShaderCode, err := loadShaderCode("shaders/vert.spv")
	if err != nil {
		return err
	}

	vertShader, _, err := ctx.Device.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: vertShaderCode,
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create vertex shader module"), ErrResourceCreation)
	}
	defer vertShader.Destroy(nil)

	// Load fragment shader
	fragShaderCode, err := loadShaderCode("shaders/frag.spv")
	if err != nil {
		return err
	}

	fragShader, _, err := ctx.Device.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: fragShaderCode,
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create fragment shader module"), ErrResourceCreation)
	}
	defer fragShader.Destroy(nil)

	vertStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageVertex,
		Module: vertShader,
		Name:   "main",
	}

	fragStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageFragment,
		Module: fragShader,
		Name:   "main",
	}

	// The triangle is hardcoded in the vertex shader, so no vertex input
	vertexInput := &core1_0.PipelineVertexInputStateCreateInfo{}

	inputAssembly := &core1_0.PipelineInputAssemblyStateCreateInfo{
		Topology:               core1_0.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: false,
	}

	viewport := &core1_0.PipelineViewportStateCreateInfo{
		Viewports: []core1_0.Viewport{
			{
				X:        0,
				Y:        0,
				Width:    float32(m.Extent.Width),
				Height:   float32(m.Extent.Height),
				MinDepth: 0,
				MaxDepth: 1,
			},
		},
		Scissors: []core1_0.Rect2D{
			{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: m.Extent,
			},
		},
	}

	rasterization := &core1_0.PipelineRasterizationStateCreateInfo{
		DepthClampEnable:        false,
		RasterizerDiscardEnable: false,

		PolygonMode: core1_0.PolygonModeFill,
		CullMode:    core1_0.CullModeBack,
		FrontFace:   core1_0.FrontFaceClockwise,

		DepthBiasEnable: false,

		LineWidth: 1.0,
	}

	multisample := &core1_0.PipelineMultisampleStateCreateInfo{
		SampleShadingEnable:  false,
		RasterizationSamples: core1_0.Samples1,
		MinSampleShading:     1.0,
	}

	colorBlend := &core1_0.PipelineColorBlendStateCreateInfo{
		LogicOpEnabled: false,
		LogicOp:        core1_0.LogicOpCopy,

		BlendConstants: [4]float32{0, 0, 0, 0},
		Attachments: []core1_0.PipelineColorBlendAttachmentState{
			{
				BlendEnabled:   false,
				ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
			},
		},
	}

	m.PipelineLayout, _, err = ctx.Device.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create pipeline layout"), ErrResourceCreation)
	}

	pipelines, _, err := ctx.Device.CreateGraphicsPipelines(nil, nil, []core1_0.GraphicsPipelineCreateInfo{
		{
			Stages: []core1_0.PipelineShaderStageCreateInfo{
				vertStage,
				fragStage,
			},
			VertexInputState:   vertexInput,
			InputAssemblyState: inputAssembly,
			ViewportState:      viewport,
			RasterizationState: rasterization,
			MultisampleState:   multisample,
			ColorBlendState:    colorBlend,
			Layout:             m.PipelineLayout,
			RenderPass:         m.RenderPass,
			Subpass:            0,
			BasePipelineIndex:  -1,
		},
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create graphics pipeline"), ErrResourceCreation)
	}
	m.Pipeline = pipelines[0]

	return nil
}

func (m *SwapchainManager) createFramebuffers(ctx *Context) error {
	for _, imageView := range m.ImageViews {
		framebuffer, _, err := ctx.Device.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
			RenderPass: m.RenderPass,
			Layers:     1,
			Attachments: []core1_0.ImageView{
				imageView,
			},
			Width:  m.Extent.Width,
			Height: m.Extent.Height,
		})
		if err != nil {
			return errors.Mark(errors.Wrap(err, "create framebuffer"), ErrResourceCreation)
		}

		m.Framebuffers = append(m.Framebuffers, framebuffer)
	}

	return nil
}
