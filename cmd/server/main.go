package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/server"
	"github.com/dmitrijs2005/gophjournal/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Printf("config: %v", err)
		os.Exit(2)
	}

	logger := logging.NewProduction(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}

	app.Run(ctx)

}
