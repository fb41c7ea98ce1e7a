package triangle

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"
)

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}
var deviceExtensions = []string{khr_swapchain.ExtensionName}

// Context bundles the instance-level and device-level handles the rest
// of the bring-up sequence works against.
type Context struct {
	Loader core.Loader

	Instance       core1_0.Instance
	DebugMessenger ext_debug_utils.DebugUtilsMessenger
	Surface        khr_surface.Surface

	PhysicalDevice core1_0.PhysicalDevice
	Device         core1_0.Device

	GraphicsQueue core1_0.Queue
	PresentQueue  core1_0.Queue
	QueueIndices  QueueFamilyIndices
}

// BuildContext runs the instance-to-queues bring-up sequence against an
// SDL window, strictly in order: instance, debug messenger, surface,
// physical device selection, logical device and queue handles. On error
// the partially built context is destroyed before returning.
func BuildContext(loader core.Loader, window *sdl.Window, config Config) (*Context, error) {
	ctx := &Context{Loader: loader}

	err := ctx.createInstance(window, config)
	if err != nil {
		return nil, err
	}

	err = ctx.setupDebugMessenger(config)
	if err != nil {
		ctx.Destroy()
		return nil, err
	}

	err = ctx.createSurface(window)
	if err != nil {
		ctx.Destroy()
		return nil, err
	}

	err = ctx.pickPhysicalDevice()
	if err != nil {
		ctx.Destroy()
		return nil, err
	}

	err = ctx.createLogicalDevice()
	if err != nil {
		ctx.Destroy()
		return nil, err
	}

	return ctx, nil
}

func (ctx *Context) createInstance(window *sdl.Window, config Config) error {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    config.AppName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         config.EngineName,
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	// The window reports the surface extensions it needs
	requiredExtensions := window.VulkanGetInstanceExtensions()
	if config.EnableValidation {
		requiredExtensions = append(requiredExtensions, ext_debug_utils.ExtensionName)
	}

	missing, err := UnsupportedInstanceExtensions(ctx.Loader, requiredExtensions)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errors.Mark(errors.Newf("createInstance: missing required instance extensions %v", missing), ErrConfiguration)
	}
	instanceOptions.EnabledExtensionNames = requiredExtensions

	if config.EnableValidation {
		missing, err = UnsupportedInstanceLayers(ctx.Loader, validationLayers)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return errors.Mark(errors.Newf("createInstance: missing validation layers %v- install LunarG Vulkan SDK", missing), ErrConfiguration)
		}
		instanceOptions.EnabledLayerNames = validationLayers

		// Chained so instance creation itself is covered
		instanceOptions.Next = debugMessengerOptions()
	}

	ctx.Instance, _, err = ctx.Loader.CreateInstance(nil, instanceOptions)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create instance"), ErrResourceCreation)
	}

	return nil
}

func (ctx *Context) setupDebugMessenger(config Config) error {
	if !config.EnableValidation {
		return nil
	}

	debugLoader := ext_debug_utils.CreateExtensionFromInstance(ctx.Instance)

	var err error
	ctx.DebugMessenger, _, err = debugLoader.CreateDebugUtilsMessenger(ctx.Instance, nil, debugMessengerOptions())
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create debug messenger"), ErrResourceCreation)
	}

	return nil
}

func (ctx *Context) createSurface(window *sdl.Window) error {
	surfaceLoader := khr_surface.CreateExtensionFromInstance(ctx.Instance)

	surface, err := vkng_sdl2.CreateSurface(ctx.Instance, surfaceLoader, window)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create window surface"), ErrResourceCreation)
	}

	ctx.Surface = surface
	return nil
}

// pickPhysicalDevice selects the first enumerated device that can drive
// the surface. There is no ranking between suitable devices.
func (ctx *Context) pickPhysicalDevice() error {
	physicalDevices, _, err := ctx.Instance.EnumeratePhysicalDevices()
	if err != nil {
		return err
	}

	for _, device := range physicalDevices {
		if ctx.isDeviceSuitable(device) {
			ctx.PhysicalDevice = device
			break
		}
	}

	if ctx.PhysicalDevice == nil {
		return errors.Mark(errors.Newf("failed to find a suitable GPU"), ErrNoSuitableDevice)
	}

	properties, err := ctx.PhysicalDevice.Properties()
	if err != nil {
		return err
	}
	log.Printf("selected physical device: %s", properties.DeviceName)

	return nil
}

func (ctx *Context) isDeviceSuitable(device core1_0.PhysicalDevice) bool {
	indices, err := findQueueFamilies(ctx.Surface, device)
	if err != nil {
		return false
	}

	missing, err := UnsupportedDeviceExtensions(device, deviceExtensions)
	if err != nil || len(missing) > 0 {
		return false
	}

	support, err := QuerySwapChainSupport(ctx.Surface, device)
	if err != nil {
		return false
	}

	return indices.IsComplete() && len(support.Formats) > 0 && len(support.PresentModes) > 0
}

func (ctx *Context) createLogicalDevice() error {
	indices, err := findQueueFamilies(ctx.Surface, ctx.PhysicalDevice)
	if err != nil {
		return err
	}
	ctx.QueueIndices = indices

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range indices.UniqueIndices() {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	available, err := DeviceExtensionNames(ctx.PhysicalDevice)
	if err != nil {
		return err
	}
	extensionNames := enabledDeviceExtensions(available)

	ctx.Device, _, err = ctx.PhysicalDevice.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create logical device"), ErrResourceCreation)
	}

	ctx.GraphicsQueue = ctx.Device.GetQueue(*indices.GraphicsFamily, 0)
	ctx.PresentQueue = ctx.Device.GetQueue(*indices.PresentFamily, 0)
	return nil
}

// enabledDeviceExtensions returns the extensions to enable on a new
// logical device given the names the driver advertises.
func enabledDeviceExtensions(available []string) []string {
	names := append([]string{}, deviceExtensions...)

	// Makes this program compatible with vulkan portability, necessary to run on mobile & mac
	for _, name := range available {
		if name == khr_portability_subset.ExtensionName {
			names = append(names, name)
			break
		}
	}

	return names
}

func findQueueFamilies(surface khr_surface.Surface, device core1_0.PhysicalDevice) (QueueFamilyIndices, error) {
	var familyFlags []core1_0.QueueFlags
	for _, family := range device.QueueFamilyProperties() {
		familyFlags = append(familyFlags, family.QueueFlags)
	}

	return FindQueueFamilies(familyFlags, func(familyIndex int) (bool, error) {
		supported, _, err := surface.PhysicalDeviceSurfaceSupport(device, familyIndex)
		return supported, err
	})
}

// Destroy releases the context handles in reverse creation order. Safe
// to call on a partially built context.
func (ctx *Context) Destroy() {
	if ctx.Device != nil {
		ctx.Device.Destroy(nil)
		ctx.Device = nil
	}

	if ctx.DebugMessenger != nil {
		ctx.DebugMessenger.Destroy(nil)
		ctx.DebugMessenger = nil
	}

	if ctx.Surface != nil {
		ctx.Surface.Destroy(nil)
		ctx.Surface = nil
	}

	if ctx.Instance != nil {
		ctx.Instance.Destroy(nil)
		ctx.Instance = nil
	}
}
