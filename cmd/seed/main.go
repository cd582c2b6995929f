// Package main seeds the lore graph with the starter triple set so the
// curated questions have answers out of the box.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loregraph/loregraph/engine/domain"
	"github.com/loregraph/loregraph/engine/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Config struct {
	Neo4jURL  string
	Neo4jUser string
	Neo4jPass string
}

func loadConfig() Config {
	return Config{
		Neo4jURL:  envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser: envOr("NEO4J_USER", "neo4j"),
		Neo4jPass: envOr("NEO4J_PASS", "password"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(loadConfig(), logger); err != nil {
		logger.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(ctx)

	store := graph.New(driver, graph.WithLogger(logger), graph.WithTimeout(60*time.Second))

	vocab := domain.DefaultVocabulary()
	logger.Info("seeding lore graph", "triples", len(graph.StarterTriples), "labels", vocab.Len())

	if err := store.SaveTriples(ctx, vocab, graph.StarterTriples); err != nil {
		return err
	}

	nodes, err := store.NodeCount(ctx)
	if err != nil {
		return fmt.Errorf("node count: %w", err)
	}
	logger.Info("seed complete", "entities", nodes)
	return nil
}
