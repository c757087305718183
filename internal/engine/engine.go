package engine

import (
	"context"

	"sinkbridge/bridge"
	"sinkbridge/internal/transport"
	"sinkbridge/source/kafka"
)

type Engine struct {
	transport *transport.Server
	source    kafka.Adapter
	bridge    *bridge.Bridge
}

func (e *Engine) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		e.transport.SetServing(false)
		if e.source != nil {
			_ = e.source.Close()
		}
		if e.bridge != nil {
			_ = e.bridge.Close()
		}
		e.transport.Stop()
	}()

	return e.transport.Serve()
}
