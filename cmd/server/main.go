// Command server runs the marketplace HTTP API and its gRPC health endpoint.
package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/motomarket/internal/server"
	"github.com/dmitrijs2005/motomarket/internal/server/config"
)

func main() {
	ctx := context.Background()

	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		log.Fatalf("motomarket: %v", err)
	}

	app.Run(ctx)
}
