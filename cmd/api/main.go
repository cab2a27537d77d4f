package main

import (
	"log"

	_ "go.uber.org/automaxprocs"

	"bewerbung-gateway/internal/bootstrap"
	"bewerbung-gateway/internal/server"
	"bewerbung-gateway/internal/shared/config"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting gateway on %s (upstream %s)", addr, cfg.UpstreamBaseURL)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
