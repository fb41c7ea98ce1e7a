package triangle

import (
	"reflect"
	"testing"

	"github.com/vkngwrapper/extensions/khr_portability_subset"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

func TestEnabledDeviceExtensionsAppendsPortabilitySubset(t *testing.T) {
	available := []string{
		"VK_EXT_memory_budget",
		khr_portability_subset.ExtensionName,
		khr_swapchain.ExtensionName,
	}

	names := enabledDeviceExtensions(available)

	want := []string{khr_swapchain.ExtensionName, khr_portability_subset.ExtensionName}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestEnabledDeviceExtensionsWithoutPortabilitySubset(t *testing.T) {
	available := []string{"VK_EXT_memory_budget", khr_swapchain.ExtensionName}

	names := enabledDeviceExtensions(available)

	want := []string{khr_swapchain.ExtensionName}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestEnabledDeviceExtensionsLeavesRequiredListAlone(t *testing.T) {
	before := append([]string{}, deviceExtensions...)

	enabledDeviceExtensions([]string{khr_portability_subset.ExtensionName})

	if !reflect.DeepEqual(deviceExtensions, before) {
		t.Errorf("required extensions changed to %v, want %v", deviceExtensions, before)
	}
}
