package main

import (
	"equitymd-backend/internal/app"
	"equitymd-backend/internal/config"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Config load failed")
	}

	fiberApp, err := app.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("App create failed")
	}

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Server starting")
	log.Info().Msgf("Health check: http://localhost:%s/health/json", cfg.Port)

	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
