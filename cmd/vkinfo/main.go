// Command vkinfo probes the local Vulkan installation and prints what
// it finds: instance extensions and layers, then every physical device
// with its queue families, device extensions, and what it can present
// to an SDL window surface.
package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	triangle "github.com/vkngwrapper/hello-triangle"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"
)

func main() {
	err := run()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}

func run() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}
	defer sdl.Quit()

	// A hidden window is enough to load Vulkan and probe surface support.
	window, err := sdl.CreateWindow("vkinfo", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, 1, 1, sdl.WINDOW_HIDDEN|sdl.WINDOW_VULKAN)
	if err != nil {
		return err
	}
	defer window.Destroy()

	loader, err := core.CreateLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return err
	}

	extensions, err := triangle.InstanceExtensionNames(loader)
	if err != nil {
		return err
	}
	list("Instance Extensions", extensions)

	layers, err := triangle.InstanceLayerNames(loader)
	if err != nil {
		return err
	}
	list("Instance Layers", layers)

	instance, err := createInstance(loader, window)
	if err != nil {
		return err
	}
	defer instance.Destroy(nil)

	surfaceLoader := khr_surface.CreateExtensionFromInstance(instance)

	surface, err := vkng_sdl2.CreateSurface(instance, surfaceLoader, window)
	if err != nil {
		return err
	}
	defer surface.Destroy(nil)

	physicalDevices, _, err := instance.EnumeratePhysicalDevices()
	if err != nil {
		return err
	}

	for _, device := range physicalDevices {
		err = showDevice(device, surface)
		if err != nil {
			return err
		}
	}

	return nil
}

func createInstance(loader core.Loader, window *sdl.Window) (core1_0.Instance, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    "vkinfo",
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,

		EnabledExtensionNames: window.VulkanGetInstanceExtensions(),
	}

	instance, _, err := loader.CreateInstance(nil, instanceOptions)
	return instance, err
}

func showDevice(device core1_0.PhysicalDevice, surface khr_surface.Surface) error {
	properties, err := device.Properties()
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", properties.DeviceName)
	fmt.Printf("-----------------------------\n")

	fmt.Printf("\n\tQueue Families\n")
	for familyIndex, family := range device.QueueFamilyProperties() {
		presentable, _, err := surface.PhysicalDeviceSurfaceSupport(device, familyIndex)
		if err != nil {
			return err
		}

		present := ""
		if presentable {
			present = ", present"
		}
		fmt.Printf("\t\t%d: %d queues (%s%s)\n", familyIndex, family.QueueCount, queueFlagString(family.QueueFlags), present)
	}

	support, err := triangle.QuerySwapChainSupport(surface, device)
	if err != nil {
		return err
	}

	fmt.Printf("\n\tSurface Support\n")
	fmt.Printf("\t\t%d surface formats, %d present modes\n", len(support.Formats), len(support.PresentModes))
	fmt.Printf("\t\timage count %d", support.Capabilities.MinImageCount)
	if support.Capabilities.MaxImageCount == 0 {
		fmt.Printf(" and up\n")
	} else {
		fmt.Printf(" to %d\n", support.Capabilities.MaxImageCount)
	}

	deviceExtensions, err := triangle.DeviceExtensionNames(device)
	if err != nil {
		return err
	}
	fmt.Printf("\n\tDevice Extensions\n")
	for _, ext := range deviceExtensions {
		fmt.Printf("\t\t%s\n", ext)
	}

	return nil
}

func queueFlagString(flags core1_0.QueueFlags) string {
	var names []string
	if flags&core1_0.QueueGraphics != 0 {
		names = append(names, "graphics")
	}
	if flags&core1_0.QueueCompute != 0 {
		names = append(names, "compute")
	}
	if flags&core1_0.QueueTransfer != 0 {
		names = append(names, "transfer")
	}
	if flags&core1_0.QueueSparseBinding != 0 {
		names = append(names, "sparse")
	}
	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, "|")
}

func list(title string, names []string) {
	fmt.Printf("%s\n", title)
	fmt.Printf("-----------------------------\n")
	for _, name := range names {
		fmt.Printf("\t%s\n", name)
	}
	fmt.Printf("\n")
}
