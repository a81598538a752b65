package main

import (
	"flag"
	"log"

	"statsboard/frontend"
	"statsboard/internal/config"
	"statsboard/internal/gui"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

func main() {
	cfgPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app := gui.NewApp(cfg)
	err = wails.Run(&options.App{
		Title:  "statsboard",
		Width:  1280,
		Height: 860,
		AssetServer: &assetserver.Options{
			Assets:  frontend.Dist(),
			Handler: gui.Handler(app),
		},
		OnStartup:  app.Startup,
		OnShutdown: app.Shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
