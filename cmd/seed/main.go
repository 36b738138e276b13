// Command seed populates the graph with a demo homeowner and a handful of
// snags, so the share workflow can be exercised against a local database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/callumw/snagshare/internal/config"
	"github.com/callumw/snagshare/internal/domain"
	"github.com/callumw/snagshare/internal/graph"
	"github.com/callumw/snagshare/internal/logging"
	"github.com/callumw/snagshare/internal/repository"
)

var sampleSnags = []domain.Snag{
	{Title: "Cracked kitchen tile", Location: "Kitchen", Description: "Hairline crack in the floor tile by the oven"},
	{Title: "Sticking bedroom door", Location: "Bedroom 2", Description: "Door catches on the frame when closing"},
	{Title: "Missing mastic seal", Location: "Bathroom", Description: "No seal between bath edge and wall"},
	{Title: "Scratched window pane", Location: "Living room", Description: "Deep scratch on the inner pane, left of centre"},
	{Title: "Uneven skirting board", Location: "Hallway", Description: "Visible gap between skirting and floor"},
	{Title: "Loose socket faceplate", Location: "Study", Description: "Double socket moves when a plug is removed"},
}

func main() {
	userID := flag.String("user", "demo-homeowner", "user id to seed")
	count := flag.Int("snags", len(sampleSnags), "number of snags to create")
	workers := flag.Int("workers", 4, "concurrent writes")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	ctx := context.Background()

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer client.Close(ctx)

	repo := repository.New(client)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)
	for i := 0; i < *count; i++ {
		snag := sampleSnags[i%len(sampleSnags)]
		g.Go(func() error {
			return repo.AddSnag(gctx, *userID, snag)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seeded demo data", "userId", *userID, "snags", *count)
}
