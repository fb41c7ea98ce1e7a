package triangle

import (
	"sort"

	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

// SwapChainSupportDetails is the surface-facing capability snapshot a
// physical device reports, used for device selection and swapchain
// creation.
type SwapChainSupportDetails struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

// InstanceExtensionNames returns the sorted names of every instance
// extension the loader reports.
func InstanceExtensionNames(loader core.Loader) ([]string, error) {
	extensions, _, err := loader.AvailableExtensions()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(extensions))
	for name := range extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// InstanceLayerNames returns the sorted names of every instance layer
// the loader reports.
func InstanceLayerNames(loader core.Loader) ([]string, error) {
	layers, _, err := loader.AvailableLayers()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeviceExtensionNames returns the sorted names of every extension a
// physical device reports.
func DeviceExtensionNames(device core1_0.PhysicalDevice) ([]string, error) {
	extensions, _, err := device.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(extensions))
	for name := range extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// UnsupportedNames returns every entry of required without a
// case-sensitive exact match in available, preserving required order.
func UnsupportedNames(required, available []string) []string {
	have := make(map[string]struct{}, len(available))
	for _, name := range available {
		have[name] = struct{}{}
	}

	var missing []string
	for _, name := range required {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// UnsupportedInstanceExtensions lists the required instance extensions
// the loader does not offer.
func UnsupportedInstanceExtensions(loader core.Loader, required []string) ([]string, error) {
	available, err := InstanceExtensionNames(loader)
	if err != nil {
		return nil, err
	}
	return UnsupportedNames(required, available), nil
}

// UnsupportedInstanceLayers lists the required layers the loader does
// not offer.
func UnsupportedInstanceLayers(loader core.Loader, required []string) ([]string, error) {
	available, err := InstanceLayerNames(loader)
	if err != nil {
		return nil, err
	}
	return UnsupportedNames(required, available), nil
}

// UnsupportedDeviceExtensions lists the required device extensions a
// physical device does not offer.
func UnsupportedDeviceExtensions(device core1_0.PhysicalDevice, required []string) ([]string, error) {
	available, err := DeviceExtensionNames(device)
	if err != nil {
		return nil, err
	}
	return UnsupportedNames(required, available), nil
}

// QuerySwapChainSupport snapshots the surface capabilities, formats, and
// present modes a physical device reports for the surface.
func QuerySwapChainSupport(surface khr_surface.Surface, device core1_0.PhysicalDevice) (SwapChainSupportDetails, error) {
	var details SwapChainSupportDetails
	var err error

	details.Capabilities, _, err = surface.PhysicalDeviceSurfaceCapabilities(device)
	if err != nil {
		return details, err
	}

	details.Formats, _, err = surface.PhysicalDeviceSurfaceFormats(device)
	if err != nil {
		return details, err
	}

	details.PresentModes, _, err = surface.PhysicalDeviceSurfacePresentModes(device)
	return details, err
}
