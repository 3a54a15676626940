package main

import (
	"os"

	"github.com/andresuchdata/inventory-dashboard/pkg/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("inventory command failed")
	}
}

func init() {
	logger.SetLevel(os.Getenv("LOG_LEVEL"))
}
