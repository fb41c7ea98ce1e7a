package triangle

import "github.com/cockroachdb/errors"

// Config carries the window and frame-loop settings for an App.
type Config struct {
	Title  string
	Width  int
	Height int

	AppName    string
	EngineName string

	// FramesInFlight is the number of frame slots the CPU may have
	// outstanding at once. It must not exceed the swapchain image count
	// the driver ends up reporting.
	FramesInFlight int

	// EnableValidation turns on the Khronos validation layer and the
	// debug messenger.
	EnableValidation bool
}

// DefaultConfig returns the settings the hello-triangle binary starts
// from: an 800x600 window, two frames in flight, validation enabled.
func DefaultConfig() Config {
	return Config{
		Title:            "Vulkan",
		Width:            800,
		Height:           600,
		AppName:          "Hello Triangle",
		EngineName:       "No Engine",
		FramesInFlight:   2,
		EnableValidation: true,
	}
}

// Validate rejects settings no driver could satisfy. Run calls it
// before any window or Vulkan work happens.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Mark(errors.Newf("window size %dx%d is not usable", c.Width, c.Height), ErrConfiguration)
	}
	if c.FramesInFlight < 1 {
		return errors.Mark(errors.Newf("frames in flight must be at least 1, got %d", c.FramesInFlight), ErrConfiguration)
	}
	return nil
}
