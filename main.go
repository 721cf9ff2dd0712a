package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/ninjagl/intersects/pkg/config"
	"github.com/ninjagl/intersects/pkg/logging"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"
)

//go:embed all:frontend/dist
var assets embed.FS

// configEnv names the variable holding an optional YAML config path.
const configEnv = "NINJA_CONFIG"

func main() {
	cfg, err := loadConfig(os.Getenv(configEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "intersects: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "intersects: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	app := NewApp(cfg, log)
	err = wails.Run(&options.App{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 30, G: 30, B: 30, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Error("wails run failed", zap.Error(err))
	}
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}
