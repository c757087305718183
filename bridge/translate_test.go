package bridge

import (
	"strings"
	"testing"
	"time"

	"sinkbridge/connect"
)

type fakeSchema struct{ typ SchemaType }

func (s fakeSchema) Type() SchemaType { return s.typ }

type fakeKVSchema struct {
	key   Schema
	value Schema
}

func (fakeKVSchema) Type() SchemaType      { return SchemaKeyValue }
func (s fakeKVSchema) KeySchema() Schema   { return s.key }
func (s fakeKVSchema) ValueSchema() Schema { return s.value }

func translatorBridge(unwrap bool) *Bridge {
	return &Bridge{
		topicName:      "target",
		unwrapKeyValue: unwrap,
		taskCtx:        newOffsetTracker(SubscriptionExclusive, nil),
	}
}

func TestTranslate_FlatStringKey(t *testing.T) {
	b := translatorBridge(false)
	r := newFakeRecord("a", 10, 5)
	r.key, r.hasKey = "user-1", true
	r.value = "hello"

	sr, err := b.translate(r)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if sr.Topic != "target" || sr.Partition != 0 {
		t.Fatalf("topic/partition = %s/%d, want target/0", sr.Topic, sr.Partition)
	}
	if sr.KeySchema != connect.SchemaString || sr.Key != "user-1" {
		t.Fatalf("key = %v (%s)", sr.Key, sr.KeySchema)
	}
	if sr.ValueSchema != connect.SchemaString || sr.Value != "hello" {
		t.Fatalf("value = %v (%s)", sr.Value, sr.ValueSchema)
	}
	if sr.Offset != 5 {
		t.Fatalf("offset = %d, want 5", sr.Offset)
	}
}

func TestTranslate_FlatRawKey(t *testing.T) {
	b := translatorBridge(false)
	r := newFakeRecord("a", 10, 5)
	r.rawKey = true
	r.keyBytes = []byte{0x01, 0x02}
	r.value = []byte("payload")

	sr, err := b.translate(r)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if sr.KeySchema != connect.SchemaBytes {
		t.Fatalf("key schema = %s, want bytes", sr.KeySchema)
	}
	if got, ok := sr.Key.([]byte); !ok || len(got) != 2 {
		t.Fatalf("key = %v, want two raw bytes", sr.Key)
	}
	if sr.ValueSchema != connect.SchemaBytes {
		t.Fatalf("value schema = %s, want bytes", sr.ValueSchema)
	}
}

func TestTranslate_FlatMissingKey(t *testing.T) {
	b := translatorBridge(false)
	r := newFakeRecord("a", 10, 5)
	r.value = int64(12)

	sr, err := b.translate(r)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if sr.Key != nil || sr.KeySchema != connect.SchemaString {
		t.Fatalf("key = %v (%s), want nil string key", sr.Key, sr.KeySchema)
	}
	if sr.ValueSchema != connect.SchemaInt64 {
		t.Fatalf("value schema = %s, want int64", sr.ValueSchema)
	}
}

func TestTranslate_UnwrapKeyValue(t *testing.T) {
	b := translatorBridge(true)
	r := newFakeRecord("a", 10, 5)
	r.schema = fakeKVSchema{key: fakeSchema{SchemaString}, value: fakeSchema{SchemaInt32}}
	r.value = KeyValue{Key: "k1", Value: int32(99)}

	sr, err := b.translate(r)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if sr.Key != "k1" || sr.KeySchema != connect.SchemaString {
		t.Fatalf("key = %v (%s)", sr.Key, sr.KeySchema)
	}
	if sr.Value != int32(99) || sr.ValueSchema != connect.SchemaInt32 {
		t.Fatalf("value = %v (%s)", sr.Value, sr.ValueSchema)
	}
}

// An unwrapped half with no usable schema entry falls back to the
// primitive table keyed by the runtime value.
func TestTranslate_UnwrapPrimitiveFallback(t *testing.T) {
	b := translatorBridge(true)
	r := newFakeRecord("a", 10, 5)
	r.schema = fakeKVSchema{key: nil, value: nil}
	r.value = KeyValue{Key: "k1", Value: 3.5}

	sr, err := b.translate(r)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if sr.KeySchema != connect.SchemaString {
		t.Fatalf("key schema = %s, want string", sr.KeySchema)
	}
	if sr.ValueSchema != connect.SchemaFloat64 {
		t.Fatalf("value schema = %s, want float64", sr.ValueSchema)
	}
}

// With unwrapping disabled, a key-value schema has no table entry and an
// unresolvable value must surface a hard error naming the pair.
func TestTranslate_UnresolvedSchemaIsFatal(t *testing.T) {
	b := translatorBridge(false)
	r := newFakeRecord("a", 10, 5)
	r.schema = fakeSchema{SchemaKeyValue}
	r.value = struct{ X int }{1}

	if _, err := b.translate(r); err == nil {
		t.Fatal("expected schema resolution error")
	} else if !strings.Contains(err.Error(), "key-value") || !strings.Contains(err.Error(), "struct") {
		t.Fatalf("error does not name the offending pair: %v", err)
	}
}

func TestTranslate_TopicAndPartitionFromRecord(t *testing.T) {
	b := translatorBridge(false)
	r := newFakeRecord("a", 10, 5)
	r.topic, r.hasTopic = "orders", true
	r.partition, r.hasPartition = 7, true
	r.value = "v"

	sr, err := b.translate(r)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if sr.Topic != "orders" || sr.Partition != 7 {
		t.Fatalf("topic/partition = %s/%d, want orders/7", sr.Topic, sr.Partition)
	}
	if got := b.taskCtx.CurrentOffset("orders", 7); got != 5 {
		t.Fatalf("watermark = %d, want 5", got)
	}
}

func TestTranslate_EventTimeBecomesCreateTime(t *testing.T) {
	b := translatorBridge(false)
	r := newFakeRecord("a", 10, 5)
	r.value = "v"
	et := time.Unix(1700001234, 0)
	r.eventTime, r.hasEventTime = et, true

	sr, err := b.translate(r)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if sr.TimestampType != connect.CreateTime || !sr.Timestamp.Equal(et) {
		t.Fatalf("timestamp = %v (%s), want %v (create-time)", sr.Timestamp, sr.TimestampType, et)
	}
}

func TestTranslate_PublishTimeKeepsNoTimestampType(t *testing.T) {
	b := translatorBridge(false)
	r := newFakeRecord("a", 10, 5)
	r.value = "v"

	sr, err := b.translate(r)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if sr.TimestampType != connect.NoTimestampType {
		t.Fatalf("timestamp type = %s, want no-timestamp", sr.TimestampType)
	}
	if !sr.Timestamp.Equal(r.publishTime) {
		t.Fatalf("timestamp = %v, want publish time %v", sr.Timestamp, r.publishTime)
	}
}

func TestTranslate_NegativeSequence(t *testing.T) {
	b := translatorBridge(false)
	r := newFakeRecord("a", 10, -1)
	r.value = "v"

	if _, err := b.translate(r); err == nil {
		t.Fatal("expected sequence error")
	}
	if got := b.taskCtx.CurrentOffset("target", 0); got != -1 {
		t.Fatalf("watermark advanced to %d for a bad record", got)
	}
}
