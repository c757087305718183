package kafka

import (
	"sync/atomic"
	"time"

	"sinkbridge/bridge"
)

// sourceRecord adapts one consumer message to the bridge's record
// contract. Ack and Fail are one-shot; whichever lands first wins and
// the other becomes a no-op.
type sourceRecord struct {
	topic     string
	partition int32
	offset    int64
	key       []byte
	value     []byte
	ts        time.Time
	rawKey    bool

	settled atomic.Bool
	ack     func()
	fail    func()
}

var _ bridge.Record = (*sourceRecord)(nil)
var _ bridge.Message = (*sourceRecord)(nil)

func (r *sourceRecord) Message() bridge.Message { return r }

func (r *sourceRecord) Key() (string, bool) {
	if r.rawKey || len(r.key) == 0 {
		return "", false
	}
	return string(r.key), true
}

func (r *sourceRecord) Value() any { return r.value }

// Kafka messages carry no schema descriptor; the bridge resolves the
// value through its primitive table.
func (r *sourceRecord) Schema() bridge.Schema { return nil }

func (r *sourceRecord) PartitionIndex() (int, bool) { return int(r.partition), true }

func (r *sourceRecord) TopicName() (string, bool) { return r.topic, true }

func (r *sourceRecord) RecordSequence() (int64, bool) { return r.offset, r.offset >= 0 }

func (r *sourceRecord) EventTime() (time.Time, bool) {
	if r.ts.IsZero() {
		return time.Time{}, false
	}
	return r.ts, true
}

func (r *sourceRecord) Size() int { return len(r.key) + len(r.value) }

func (r *sourceRecord) HasRawKey() bool { return r.rawKey && len(r.key) > 0 }

func (r *sourceRecord) KeyBytes() []byte { return r.key }

func (r *sourceRecord) PublishTime() time.Time { return r.ts }

func (r *sourceRecord) Ack() {
	if r.settled.CompareAndSwap(false, true) {
		r.ack()
	}
}

func (r *sourceRecord) Fail() {
	if r.settled.CompareAndSwap(false, true) {
		r.fail()
	}
}
