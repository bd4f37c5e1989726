// Command authctl is an interactive client for the auth API.
package main

import (
	"context"
	"log"

	"github.com/Santos2175/auth-app/internal/client/cli"
	"github.com/Santos2175/auth-app/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("authctl: %v", err)
	}

	app.Run(context.Background())
}
