package main

import (
	"fmt"
	"os"

	"github.com/portald-dev/portald/internal/config"
	"github.com/portald-dev/portald/internal/logger"
	"github.com/portald-dev/portald/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().
		Str("version", version).
		Str("api_base_url", cfg.API.BaseURL).
		Str("session_backend", cfg.Session.Backend).
		Msg("Starting portald web portal...")

	// Blocks until shutdown
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
