package triangle

import (
	"log"

	"github.com/loov/hrtime"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core"
)

// App owns the window and the three Vulkan aggregates needed to put a
// triangle on screen, and drives the event loop. Create one with
// NewApp and call Run; everything else happens internally.
type App struct {
	config Config

	window *sdl.Window
	loader core.Loader

	ctx       *Context
	swapchain *SwapchainManager
	frameSync *FrameSync
	scheduler *FrameScheduler

	frameTimes FrameTimes
}

// NewApp prepares an application with the given configuration. No
// window or Vulkan objects exist until Run is called.
func NewApp(config Config) *App {
	return &App{config: config}
}

// Run brings up the window and the whole Vulkan stack, renders frames
// until the window is closed, then tears everything down in reverse
// order. Errors during bring-up are returned without releasing objects
// created by earlier phases; the process is expected to exit on them.
func (app *App) Run() error {
	err := app.config.Validate()
	if err != nil {
		return err
	}

	err = app.initWindow()
	if err != nil {
		return err
	}

	err = app.initVulkan()
	if err != nil {
		return err
	}
	defer app.cleanup()

	err = app.mainLoop()
	if err != nil {
		return err
	}

	log.Printf("rendered %s", &app.frameTimes)
	return nil
}

func (app *App) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}

	window, err := sdl.CreateWindow(app.config.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(app.config.Width), int32(app.config.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		return err
	}
	app.window = window

	app.loader, err = core.CreateLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return err
	}

	return nil
}

func (app *App) initVulkan() error {
	ctx, err := BuildContext(app.loader, app.window, app.config)
	if err != nil {
		return err
	}
	app.ctx = ctx

	drawableWidth, drawableHeight := app.window.VulkanGetDrawableSize()

	swapchain, err := NewSwapchainManager(app.ctx, int(drawableWidth), int(drawableHeight))
	if err != nil {
		return err
	}
	app.swapchain = swapchain

	frameSync, err := NewFrameSync(app.ctx, app.swapchain, app.config.FramesInFlight)
	if err != nil {
		return err
	}
	app.frameSync = frameSync

	scheduler, err := NewFrameScheduler(app.frameSync, app.config.FramesInFlight, len(app.swapchain.Images))
	if err != nil {
		return err
	}
	app.scheduler = scheduler

	return nil
}

func (app *App) mainLoop() error {
appLoop:
	for true {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event.(type) {
			case *sdl.QuitEvent:
				break appLoop
			}
		}

		err := app.scheduler.DrawFrame()
		if err != nil {
			return err
		}
		app.frameTimes.Tick(hrtime.Now())
	}

	_, err := app.ctx.Device.WaitIdle()
	return err
}

func (app *App) cleanup() {
	if app.frameSync != nil {
		app.frameSync.Destroy()
	}

	if app.swapchain != nil {
		app.swapchain.Destroy()
	}

	if app.ctx != nil {
		app.ctx.Destroy()
	}

	if app.window != nil {
		app.window.Destroy()
	}
	sdl.Quit()
}
