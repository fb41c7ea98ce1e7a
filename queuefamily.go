package triangle

import (
	"github.com/vkngwrapper/core/core1_0"
)

// QueueFamilyIndices records which queue families satisfy the graphics
// and presentation requirements. The two may name the same family.
type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i *QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

// UniqueIndices returns the distinct family indices, graphics first.
// Both families must have been found.
func (i *QueueFamilyIndices) UniqueIndices() []int {
	indices := []int{*i.GraphicsFamily}
	if *i.PresentFamily != *i.GraphicsFamily {
		indices = append(indices, *i.PresentFamily)
	}
	return indices
}

// FindQueueFamilies scans the per-family queue flags for a family with
// graphics support and a family the presentSupport callback approves,
// stopping as soon as both are found.
func FindQueueFamilies(familyFlags []core1_0.QueueFlags, presentSupport func(familyIndex int) (bool, error)) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}

	for familyIdx, flags := range familyFlags {
		if (flags & core1_0.QueueGraphics) != 0 {
			indices.GraphicsFamily = new(int)
			*indices.GraphicsFamily = familyIdx
		}

		supported, err := presentSupport(familyIdx)
		if err != nil {
			return indices, err
		}

		if supported {
			indices.PresentFamily = new(int)
			*indices.PresentFamily = familyIdx
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}
