package main

import (
	"flag"
	"log"

	triangle "github.com/vkngwrapper/hello-triangle"
)

func main() {
	config := triangle.DefaultConfig()
	flag.IntVar(&config.Width, "width", config.Width, "window width in pixels")
	flag.IntVar(&config.Height, "height", config.Height, "window height in pixels")
	flag.IntVar(&config.FramesInFlight, "frames-in-flight", config.FramesInFlight, "number of frames the CPU may record ahead of the GPU")
	flag.BoolVar(&config.EnableValidation, "debug", config.EnableValidation, "enable Vulkan validation layers")
	flag.Parse()

	app := triangle.NewApp(config)

	err := app.Run()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}
