// Package main runs the tracker MCP server over stdio (for local AI client use).
// The same MCP server is also mounted on the main service at /mcp over HTTP,
// so either works: stdio (this cmd) or the service URL with the MCP secret.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/calisthenics/internal"
	"github.com/2beens/calisthenics/internal/config"
	trackermcp "github.com/2beens/calisthenics/internal/mcp"
	"github.com/2beens/calisthenics/internal/store/cache"
	"github.com/2beens/calisthenics/internal/tracker"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	storage, err := internal.OpenStore(ctx, cfg, internal.OpenStoreParams{})
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer storage.Close()

	service := tracker.NewService(tracker.ServiceParams{
		Store:        storage.Store,
		StatsCache:   cache.NewLocal(cfg.StatsCacheSize),
		StoreTimeout: cfg.StoreTimeout(),
		Location:     cfg.Location(),
	})
	server := trackermcp.NewServer(service)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
