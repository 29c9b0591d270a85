package main

import (
	"slotly/internal/web"
	"slotly/pkg/app"
	"slotly/pkg/config"
)

const ServiceName = "slotly-web"

func main() {
	cfg := config.Load(ServiceName, config.DefaultWebPort)

	cfg.Log.Info("Starting Slotly web server", "static_dir", cfg.StaticDir)
	serverApp := app.NewApplication(cfg).ListenOn("0.0.0.0")
	serverApp.SetStatic(web.NewSPAHandler(cfg.StaticDir))
	serverApp.Run()
}
