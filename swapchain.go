package triangle

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// ChooseSurfaceFormat prefers 8-bit BGRA paired with the SRGB non-linear
// color space, falling back to the first format the driver reports.
func ChooseSurfaceFormat(availableFormats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range availableFormats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return availableFormats[0]
}

// ChoosePresentMode prefers mailbox when offered, falling back to FIFO,
// the one mode every driver must support.
func ChoosePresentMode(availablePresentModes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range availablePresentModes {
		if presentMode == khr_surface.PresentModeMailbox {
			return presentMode
		}
	}

	return khr_surface.PresentModeFIFO
}

// ChooseExtent returns the surface-reported extent when the driver fixed
// it, and otherwise clamps the drawable size into the reported bounds.
func ChooseExtent(capabilities *khr_surface.SurfaceCapabilities, drawableWidth, drawableHeight int) core1_0.Extent2D {
	if capabilities.CurrentExtent.Width != -1 {
		return capabilities.CurrentExtent
	}

	width := drawableWidth
	height := drawableHeight

	if width < capabilities.MinImageExtent.Width {
		width = capabilities.MinImageExtent.Width
	}
	if width > capabilities.MaxImageExtent.Width {
		width = capabilities.MaxImageExtent.Width
	}
	if height < capabilities.MinImageExtent.Height {
		height = capabilities.MinImageExtent.Height
	}
	if height > capabilities.MaxImageExtent.Height {
		height = capabilities.MaxImageExtent.Height
	}

	return core1_0.Extent2D{Width: width, Height: height}
}

// ChooseImageCount requests one image beyond the reported minimum,
// clamped to the reported maximum when the driver has one (0 means
// unbounded).
func ChooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

// ChooseSharingMode returns exclusive ownership when one family serves
// both graphics and presentation, and concurrent sharing across the two
// family indices otherwise.
func ChooseSharingMode(indices QueueFamilyIndices) (core1_0.SharingMode, []int) {
	if *indices.GraphicsFamily != *indices.PresentFamily {
		return core1_0.SharingModeConcurrent, []int{*indices.GraphicsFamily, *indices.PresentFamily}
	}
	return core1_0.SharingModeExclusive, nil
}

// SwapchainManager owns the swapchain and everything built per image on
// top of it: image views, render pass, pipeline, framebuffers, and the
// pre-recorded command buffers the frame loop submits.
type SwapchainManager struct {
	device core1_0.Device

	Extension khr_swapchain.Extension
	Swapchain khr_swapchain.Swapchain

	Images      []core1_0.Image
	ImageFormat core1_0.Format
	Extent      core1_0.Extent2D
	ImageViews  []core1_0.ImageView

	RenderPass     core1_0.RenderPass
	PipelineLayout core1_0.PipelineLayout
	Pipeline       core1_0.Pipeline

	Framebuffers []core1_0.Framebuffer

	CommandPool    core1_0.CommandPool
	CommandBuffers []core1_0.CommandBuffer
}

// NewSwapchainManager creates the swapchain for the context's surface
// and builds the render pass, pipeline, framebuffers, and one recorded
// command buffer per swapchain image. The drawable size feeds extent
// selection when the surface leaves the choice to the application. On
// error the partially built manager is destroyed before returning.
func NewSwapchainManager(ctx *Context, drawableWidth, drawableHeight int) (*SwapchainManager, error) {
	m := &SwapchainManager{device: ctx.Device}

	err := m.createSwapchain(ctx, drawableWidth, drawableHeight)
	if err != nil {
		return nil, err
	}

	err = m.createImageViews(ctx)
	if err != nil {
		m.Destroy()
		return nil, err
	}

	err = m.createRenderPass(ctx)
	if err != nil {
		m.Destroy()
		return nil, err
	}

	err = m.createGraphicsPipeline(ctx)
	if err != nil {
		m.Destroy()
		return nil, err
	}

	err = m.createFramebuffers(ctx)
	if err != nil {
		m.Destroy()
		return nil, err
	}

	err = m.createCommandPool(ctx)
	if err != nil {
		m.Destroy()
		return nil, err
	}

	err = m.createCommandBuffers(ctx)
	if err != nil {
		m.Destroy()
		return nil, err
	}

	return m, nil
}

func (m *SwapchainManager) createSwapchain(ctx *Context, drawableWidth, drawableHeight int) error {
	m.Extension = khr_swapchain.CreateExtensionFromDevice(ctx.Device)

	support, err := QuerySwapChainSupport(ctx.Surface, ctx.PhysicalDevice)
	if err != nil {
		return err
	}

	surfaceFormat := ChooseSurfaceFormat(support.Formats)
	presentMode := ChoosePresentMode(support.PresentModes)
	extent := ChooseExtent(support.Capabilities, drawableWidth, drawableHeight)
	imageCount := ChooseImageCount(support.Capabilities)
	sharingMode, queueFamilyIndices := ChooseSharingMode(ctx.QueueIndices)

	swapchain, _, err := m.Extension.CreateSwapchain(ctx.Device, nil, khr_swapchain.SwapchainCreateInfo{
		Surface: ctx.Surface,

		MinImageCount:    imageCount,
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilyIndices,

		PreTransform:   support.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    presentMode,
		Clipped:        true,
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create swapchain"), ErrResourceCreation)
	}

	m.Swapchain = swapchain
	m.ImageFormat = surfaceFormat.Format
	m.Extent = extent

	return nil
}

func (m *SwapchainManager) createImageViews(ctx *Context) error {
	images, _, err := m.Swapchain.SwapchainImages()
	if err != nil {
		return err
	}
	m.Images = images

	var imageViews []core1_0.ImageView
	for _, image := range images {
		view, _, err := ctx.Device.CreateImageView(nil, core1_0.ImageViewCreateInfo{
			Image:    image,
			ViewType: core1_0.ImageViewType2D,
			Format:   m.ImageFormat,
			SubresourceRange: core1_0.ImageSubresourceRange{
				AspectMask:     core1_0.ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		})
		if err != nil {
			return errors.Mark(errors.Wrap(err, "create swapchain image view"), ErrResourceCreation)
		}

		imageViews = append(imageViews, view)
	}
	m.ImageViews = imageViews

	return nil
}

// Destroy releases everything the manager built: per-image resources
// first, then pipeline state, then the swapchain and the pool. Safe to
// call on a partially built manager.
func (m *SwapchainManager) Destroy() {
	for _, framebuffer := range m.Framebuffers {
		framebuffer.Destroy(nil)
	}
	m.Framebuffers = nil

	if len(m.CommandBuffers) > 0 {
		m.device.FreeCommandBuffers(m.CommandBuffers)
		m.CommandBuffers = nil
	}

	if m.Pipeline != nil {
		m.Pipeline.Destroy(nil)
		m.Pipeline = nil
	}

	if m.PipelineLayout != nil {
		m.PipelineLayout.Destroy(nil)
		m.PipelineLayout = nil
	}

	if m.RenderPass != nil {
		m.RenderPass.Destroy(nil)
		m.RenderPass = nil
	}

	for _, imageView := range m.ImageViews {
		imageView.Destroy(nil)
	}
	m.ImageViews = nil

	if m.Swapchain != nil {
		m.Swapchain.Destroy(nil)
		m.Swapchain = nil
	}

	if m.CommandPool != nil {
		m.CommandPool.Destroy(nil)
		m.CommandPool = nil
	}
}
