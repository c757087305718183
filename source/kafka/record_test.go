package kafka

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testRecord(acks, fails *atomic.Int32) *sourceRecord {
	r := &sourceRecord{
		topic:     "t",
		partition: 1,
		offset:    42,
		key:       []byte("k"),
		value:     []byte("v"),
		ts:        time.Unix(1700000000, 0),
	}
	r.ack = func() { acks.Add(1) }
	r.fail = func() { fails.Add(1) }
	return r
}

func TestSourceRecord_AckIsOneShot(t *testing.T) {
	var acks, fails atomic.Int32
	r := testRecord(&acks, &fails)

	r.Ack()
	r.Ack()
	r.Fail()

	if acks.Load() != 1 || fails.Load() != 0 {
		t.Fatalf("acks/fails = %d/%d, want 1/0", acks.Load(), fails.Load())
	}
}

func TestSourceRecord_FailIsOneShot(t *testing.T) {
	var acks, fails atomic.Int32
	r := testRecord(&acks, &fails)

	r.Fail()
	r.Ack()

	if acks.Load() != 0 || fails.Load() != 1 {
		t.Fatalf("acks/fails = %d/%d, want 0/1", acks.Load(), fails.Load())
	}
}

func TestSourceRecord_ConcurrentSettle(t *testing.T) {
	var acks, fails atomic.Int32
	r := testRecord(&acks, &fails)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				r.Ack()
			} else {
				r.Fail()
			}
		}(i)
	}
	wg.Wait()

	if total := acks.Load() + fails.Load(); total != 1 {
		t.Fatalf("settled %d times, want exactly once", total)
	}
}

func TestSourceRecord_StringKey(t *testing.T) {
	var acks, fails atomic.Int32
	r := testRecord(&acks, &fails)

	if k, ok := r.Key(); !ok || k != "k" {
		t.Fatalf("key = %q/%v", k, ok)
	}
	if r.HasRawKey() {
		t.Fatal("string-keyed record reported a raw key")
	}
}

func TestSourceRecord_RawKey(t *testing.T) {
	var acks, fails atomic.Int32
	r := testRecord(&acks, &fails)
	r.rawKey = true

	if _, ok := r.Key(); ok {
		t.Fatal("raw-keyed record exposed a string key")
	}
	if !r.HasRawKey() || string(r.KeyBytes()) != "k" {
		t.Fatalf("raw key = %q", r.KeyBytes())
	}
}

func TestSourceRecord_Projection(t *testing.T) {
	var acks, fails atomic.Int32
	r := testRecord(&acks, &fails)

	if topic, ok := r.TopicName(); !ok || topic != "t" {
		t.Fatalf("topic = %q/%v", topic, ok)
	}
	if p, ok := r.PartitionIndex(); !ok || p != 1 {
		t.Fatalf("partition = %d/%v", p, ok)
	}
	if seq, ok := r.RecordSequence(); !ok || seq != 42 {
		t.Fatalf("sequence = %d/%v", seq, ok)
	}
	if r.Size() != 2 {
		t.Fatalf("size = %d, want 2", r.Size())
	}
	if et, ok := r.EventTime(); !ok || !et.Equal(r.ts) {
		t.Fatalf("event time = %v/%v", et, ok)
	}
	if r.Schema() != nil {
		t.Fatal("kafka record carries a schema")
	}
}
