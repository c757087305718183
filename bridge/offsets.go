package bridge

import (
	"sync"

	"sinkbridge/connect"
)

// OffsetStore persists a committed offset snapshot. Implementations are
// optional; the nil store keeps watermarks in memory only, which is safe
// under at-least-once semantics because the upstream redelivers anything
// not acknowledged.
type OffsetStore interface {
	Save(offsets map[connect.TopicPartition]int64) error
}

// offsetTracker implements connect.TaskContext. Admission goroutines
// advance the per-partition watermark through UpdateLastOffset; the flush
// lane reads snapshots and persists them.
type offsetTracker struct {
	sub   SubscriptionType
	store OffsetStore

	mu        sync.RWMutex
	last      map[connect.TopicPartition]int64
	committed map[connect.TopicPartition]int64
}

func newOffsetTracker(sub SubscriptionType, store OffsetStore) *offsetTracker {
	return &offsetTracker{
		sub:       sub,
		store:     store,
		last:      make(map[connect.TopicPartition]int64),
		committed: make(map[connect.TopicPartition]int64),
	}
}

func (t *offsetTracker) CurrentOffsets() map[connect.TopicPartition]int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[connect.TopicPartition]int64, len(t.last))
	for tp, off := range t.last {
		out[tp] = off
	}
	return out
}

func (t *offsetTracker) CurrentOffset(topic string, partition int) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if off, ok := t.last[connect.TopicPartition{Topic: topic, Partition: partition}]; ok {
		return off
	}
	return -1
}

// UpdateLastOffset advances the watermark; it never moves backwards.
func (t *offsetTracker) UpdateLastOffset(tp connect.TopicPartition, offset int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.last[tp]; ok && cur > offset {
		return
	}
	t.last[tp] = offset
}

// FlushOffsets persists the snapshot as the new committed watermark.
func (t *offsetTracker) FlushOffsets(offsets map[connect.TopicPartition]int64) error {
	if t.store != nil {
		if err := t.store.Save(offsets); err != nil {
			return err
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for tp, off := range offsets {
		t.committed[tp] = off
	}
	return nil
}

func (t *offsetTracker) Subscription() string { return t.sub.String() }

func (t *offsetTracker) committedOffset(tp connect.TopicPartition) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	off, ok := t.committed[tp]
	return off, ok
}

func (t *offsetTracker) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = map[connect.TopicPartition]int64{}
	t.committed = map[connect.TopicPartition]int64{}
}
