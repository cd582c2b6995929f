// Package main implements the lore graph explorer API server: the HTTP
// presentation host in front of the query-resolution pipeline.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loregraph/loregraph/engine/domain"
	"github.com/loregraph/loregraph/engine/graph"
	"github.com/loregraph/loregraph/engine/resolver"
	"github.com/loregraph/loregraph/engine/session"
	"github.com/loregraph/loregraph/pkg/llm"
	"github.com/loregraph/loregraph/pkg/metrics"
	"github.com/loregraph/loregraph/pkg/mid"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config holds all environment-based configuration.
type Config struct {
	Port       string
	Neo4jURL   string
	Neo4jUser  string
	Neo4jPass  string
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	NATSURL    string // empty disables run events
	CORSOrigin string
}

func loadConfig() Config {
	return Config{
		Port:       envOr("PORT", "8080"),
		Neo4jURL:   envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:  envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:  envOr("NEO4J_PASS", "password"),
		LLMBaseURL: envOr("LLM_BASE_URL", "https://api.openai.com"),
		LLMAPIKey:  envOr("LLM_API_KEY", ""),
		LLMModel:   envOr("LLM_MODEL", "gpt-4"),
		NATSURL:    envOr("NATS_URL", ""),
		CORSOrigin: envOr("CORS_ORIGIN", "*"),
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
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to Neo4j ---
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(ctx)

	reg := metrics.New()

	store := graph.New(driver, graph.WithLogger(logger), graph.WithMetrics(reg))
	entities := graph.NewEntityRepo(driver)

	// --- Build resolvers ---
	vocab := domain.DefaultVocabulary()
	completer := llm.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, llm.WithMetrics(reg))
	queries := resolver.NewQueryResolver(completer, vocab, logger, resolver.WithMetrics(reg))
	interpret := resolver.NewInterpretationResolver(completer, logger)

	// --- Optional NATS run events ---
	var events session.EventSink
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("loregraph-api"))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()
		events = &natsSink{nc: nc, logger: logger}
		logger.Info("run events enabled", "url", cfg.NATSURL)
	}

	srv := newServer(serverDeps{
		store:     store,
		entities:  entities,
		queries:   queries,
		interpret: interpret,
		events:    events,
		registry:  reg,
		logger:    logger,
	})

	handler := mid.Chain(srv.routes(),
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("loregraph-api"),
	)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}
