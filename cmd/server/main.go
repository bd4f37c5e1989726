// Command server runs the auth API.
package main

import (
	"context"
	"log"

	"github.com/Santos2175/auth-app/internal/server"
	"github.com/Santos2175/auth-app/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("auth server: %v", err)
	}

	app.Run(context.Background())
}
