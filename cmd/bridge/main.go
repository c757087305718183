package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"sinkbridge/internal/engine"
	"sinkbridge/internal/logging"

	_ "sinkbridge/connect/kafka"
	_ "sinkbridge/connect/stdout"
)

func main() {
	logging.InitFromEnv()

	cfg := engine.Config{
		GRPCPort:    7070,
		MetricsPort: 9100,
		BridgeYml:   "bridge.yml",
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := engine.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	if err := e.Run(ctx); err != nil {
		log.Fatalf("engine: %v", err)
	}
}
