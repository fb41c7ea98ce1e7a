// Package triangle brings up a Vulkan context over an SDL2 window and
// renders a single hardcoded triangle. It walks the full explicit-GPU
// bring-up sequence: instance and device creation, swapchain and
// pipeline construction, and a fence/semaphore-synchronized frame loop
// with a fixed number of frames in flight.
package triangle
