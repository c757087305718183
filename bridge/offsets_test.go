package bridge

import (
	"testing"

	"sinkbridge/connect"
)

func TestOffsetTracker_WatermarkNeverRegresses(t *testing.T) {
	tr := newOffsetTracker(SubscriptionExclusive, nil)
	tp := connect.TopicPartition{Topic: "t", Partition: 0}

	tr.UpdateLastOffset(tp, 10)
	tr.UpdateLastOffset(tp, 7)
	if got := tr.CurrentOffset("t", 0); got != 10 {
		t.Fatalf("watermark = %d, want 10", got)
	}
	tr.UpdateLastOffset(tp, 11)
	if got := tr.CurrentOffset("t", 0); got != 11 {
		t.Fatalf("watermark = %d, want 11", got)
	}
}

func TestOffsetTracker_SnapshotIsACopy(t *testing.T) {
	tr := newOffsetTracker(SubscriptionExclusive, nil)
	tp := connect.TopicPartition{Topic: "t", Partition: 1}
	tr.UpdateLastOffset(tp, 5)

	snap := tr.CurrentOffsets()
	snap[tp] = 999
	if got := tr.CurrentOffset("t", 1); got != 5 {
		t.Fatalf("watermark = %d after mutating a snapshot, want 5", got)
	}
}

func TestOffsetTracker_UnknownPartition(t *testing.T) {
	tr := newOffsetTracker(SubscriptionExclusive, nil)
	if got := tr.CurrentOffset("nope", 0); got != -1 {
		t.Fatalf("offset = %d, want -1", got)
	}
}

type capturingStore struct {
	saved []map[connect.TopicPartition]int64
}

func (s *capturingStore) Save(offsets map[connect.TopicPartition]int64) error {
	s.saved = append(s.saved, offsets)
	return nil
}

func TestOffsetTracker_FlushPersistsAndCommits(t *testing.T) {
	store := &capturingStore{}
	tr := newOffsetTracker(SubscriptionFailover, store)
	tp := connect.TopicPartition{Topic: "t", Partition: 2}
	tr.UpdateLastOffset(tp, 42)

	if err := tr.FlushOffsets(tr.CurrentOffsets()); err != nil {
		t.Fatalf("FlushOffsets: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0][tp] != 42 {
		t.Fatalf("store saw %v", store.saved)
	}
	if off, ok := tr.committedOffset(tp); !ok || off != 42 {
		t.Fatalf("committed = %d/%v, want 42/true", off, ok)
	}
}

func TestOffsetTracker_Subscription(t *testing.T) {
	tr := newOffsetTracker(SubscriptionFailover, nil)
	if got := tr.Subscription(); got != "failover" {
		t.Fatalf("subscription = %q, want failover", got)
	}
}
