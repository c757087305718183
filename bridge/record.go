// Package bridge accumulates records delivered one-by-one from a
// partitioned log and feeds them to a batch-oriented sink connector,
// translating the connector's coarse "batch flushed" signal back into
// per-record acknowledgements. Delivery is at-least-once: a record is
// acked only after the flush that covers it succeeded, and failed
// otherwise so the upstream redelivers it.
package bridge

import "time"

// SubscriptionType is the upstream consumer's delivery model.
type SubscriptionType int

const (
	SubscriptionExclusive SubscriptionType = iota
	SubscriptionFailover
	SubscriptionShared
)

func (s SubscriptionType) String() string {
	switch s {
	case SubscriptionExclusive:
		return "exclusive"
	case SubscriptionFailover:
		return "failover"
	case SubscriptionShared:
		return "shared"
	default:
		return "unknown"
	}
}

// Message is the transport-level view of an upstream record.
type Message interface {
	// Size is the record's contribution to the batch size counter.
	Size() int
	// HasRawKey reports whether the key was produced as raw bytes
	// rather than a UTF-8 string.
	HasRawKey() bool
	KeyBytes() []byte
	PublishTime() time.Time
}

// Record is one entry handed to the bridge by the upstream log client.
// Ack and Fail are one-shot: the bridge calls exactly one of them,
// exactly once, after which the record must not be touched again.
type Record interface {
	Message() Message
	Key() (string, bool)
	Value() any
	Schema() Schema
	PartitionIndex() (int, bool)
	TopicName() (string, bool)
	RecordSequence() (int64, bool)
	EventTime() (time.Time, bool)
	Ack()
	Fail()
}

// KeyValue is the native payload of a key-value tagged record.
type KeyValue struct {
	Key   any
	Value any
}
