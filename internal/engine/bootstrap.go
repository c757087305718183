package engine

import (
	"context"
	"fmt"

	"sinkbridge/bridge"
	"sinkbridge/internal/config"
	"sinkbridge/internal/telemetry"
	"sinkbridge/internal/transport"
	"sinkbridge/source/kafka"
)

type Config struct {
	GRPCPort    int
	MetricsPort int
	BridgeYml   string
}

func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	// 1. control server
	srv, err := transport.StartServer(cfg.GRPCPort)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}

	// 2. bridge spec
	file, srcPath, bridgePath, err := config.LoadBridgeSpec(cfg.BridgeYml)
	if err != nil {
		return nil, fmt.Errorf("spec: %w", err)
	}
	if file.Source.Kind != "kafka" {
		return nil, fmt.Errorf("unsupported source %q", file.Source.Kind)
	}

	// 3. upstream source
	kc, err := config.LoadKafkaConfig(srcPath)
	if err != nil {
		return nil, err
	}
	src, err := kafka.NewAdapter(file.Source.Driver)
	if err != nil {
		return nil, err
	}
	if err := src.Configure(kc); err != nil {
		return nil, err
	}

	// 4. bridge + connector
	bcfg, err := config.LoadBridgeConfig(bridgePath)
	if err != nil {
		return nil, err
	}
	metrics := telemetry.NewMetrics()
	br, err := bridge.Open(bcfg, bridge.Env{Subscription: src.Subscription()}, metrics)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}

	go func() { _ = src.Run(ctx, br.Write) }()

	// 5. metrics
	telemetry.Expose(cfg.MetricsPort)
	srv.SetServing(true)

	return &Engine{
		transport: srv,
		source:    src,
		bridge:    br,
	}, nil
}
