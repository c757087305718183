// Package kafka feeds the bridge from Kafka topics: a consumer-group
// driver that wraps each message as a bridge.Record whose Ack marks the
// consumer offset and whose Fail leaves it unmarked for redelivery.
package kafka

import (
	"context"

	"sinkbridge/bridge"
)

// EmitFunc delivers one upstream record to the bridge for admission.
type EmitFunc func(bridge.Record)

type Adapter interface {
	Configure(Config) error
	// Subscription reports the delivery model the adapter runs with;
	// the bridge rejects shared subscriptions at startup.
	Subscription() bridge.SubscriptionType
	Run(context.Context, EmitFunc) error
	Close() error
}
