package bridge

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"sinkbridge/connect"
	"sinkbridge/internal/logging"
	"sinkbridge/internal/telemetry"
)

// Env is what the hosting runtime provides when opening a bridge.
type Env struct {
	Subscription SubscriptionType
	// Offsets persists committed snapshots; nil keeps them in memory.
	Offsets OffsetStore
}

// Bridge is one running instance of the batching and ack-bridging
// engine. Write may be called from any number of goroutines; all flush
// cycles run on one dedicated lane.
type Bridge struct {
	topicName      string
	unwrapKeyValue bool

	connector connect.Connector
	task      connect.Task
	taskCtx   *offsetTracker

	maxBatchSize     int64
	currentBatchSize atomic.Int64
	linger           time.Duration

	pending      pendingQueue
	flushRunning atomic.Bool
	running      atomic.Bool

	flushCh chan struct{}
	quitCh  chan struct{}
	lane    sync.WaitGroup

	metrics *telemetry.Metrics
}

// Open wires the connector named in cfg, starts its task, and starts the
// flush lane with the periodic forced flush at the linger interval.
func Open(cfg Config, env Env, m *telemetry.Metrics) (*Bridge, error) {
	if cfg.Topic == "" {
		return nil, errors.New("bridge topic is not set")
	}
	if env.Subscription != SubscriptionExclusive && env.Subscription != SubscriptionFailover {
		return nil, fmt.Errorf("bridge requires an exclusive or failover subscription, got %s", env.Subscription)
	}
	applyDefaults(&cfg)

	connector, err := connect.New(cfg.Connector)
	if err != nil {
		return nil, err
	}
	if err := connector.Start(cfg.ConnectorProps); err != nil {
		return nil, fmt.Errorf("connector start: %w", err)
	}
	configs, err := connector.TaskConfigs(1)
	if err != nil {
		return nil, fmt.Errorf("connector task configs: %w", err)
	}
	if len(configs) != 1 {
		return nil, fmt.Errorf("connector produced %d task configs, want 1", len(configs))
	}
	taskConfig := configs[0]
	if taskConfig == nil {
		taskConfig = map[string]string{}
	}
	taskConfig[connect.OffsetStorageConfig] = cfg.OffsetStorageTopic
	taskConfig[connect.ServiceURLConfig] = cfg.ServiceURL

	b := &Bridge{
		topicName:      cfg.Topic,
		unwrapKeyValue: cfg.UnwrapKeyValue,
		connector:      connector,
		task:           connector.Task(),
		taskCtx:        newOffsetTracker(env.Subscription, env.Offsets),
		maxBatchSize:   cfg.MaxBatchSize,
		linger:         cfg.LingerTime,
		flushCh:        make(chan struct{}, 1),
		quitCh:         make(chan struct{}),
		metrics:        m,
	}
	b.task.Initialize(b.taskCtx)
	if err := b.task.Start(taskConfig); err != nil {
		return nil, fmt.Errorf("task start: %w", err)
	}

	b.running.Store(true)
	b.lane.Add(1)
	go b.flushLoop()

	logging.L().Info("bridge started",
		"connector", cfg.Connector, "topic", b.topicName,
		"maxBatchSize", b.maxBatchSize, "linger", b.linger)
	return b, nil
}

// Write admits one upstream record: translate, hand downstream, queue
// for acknowledgement, then evaluate the flush trigger. It never blocks
// on a flush. Any admission error fails the record immediately; the
// record is then not queued and not size-accounted.
func (b *Bridge) Write(rec Record) {
	if !b.running.Load() {
		logging.L().Warn("bridge is stopped, cannot admit record")
		rec.Fail()
		b.metrics.RecordsFailed.WithLabelValues("admission").Inc()
		return
	}
	msg := rec.Message()
	if msg == nil {
		logging.L().Error("record without a message, failing it")
		rec.Fail()
		b.metrics.RecordsFailed.WithLabelValues("admission").Inc()
		return
	}

	sr, err := b.translate(rec)
	if err != nil {
		logging.L().Error("error translating record", "err", err)
		rec.Fail()
		b.metrics.RecordsFailed.WithLabelValues("admission").Inc()
		return
	}
	if err := b.task.Put([]connect.SinkRecord{sr}); err != nil {
		logging.L().Error("error handing record downstream",
			"topic", sr.Topic, "partition", sr.Partition, "offset", sr.Offset, "err", err)
		rec.Fail()
		b.metrics.RecordsFailed.WithLabelValues("admission").Inc()
		return
	}

	size := int64(msg.Size())
	b.pending.push(rec, size)
	b.currentBatchSize.Add(size)
	b.metrics.RecordsAdmitted.Inc()
	b.metrics.PendingBytes.Add(float64(size))
	b.metrics.PendingRecords.Inc()
	b.flushIfNeeded(false)
}

// flushIfNeeded schedules a flush on the lane when forced or when the
// size threshold is reached. Scheduling never blocks; if a flush is
// already queued or running the request collapses into it.
func (b *Bridge) flushIfNeeded(force bool) {
	if b.flushRunning.Load() {
		return
	}
	if force || b.currentBatchSize.Load() >= b.maxBatchSize {
		select {
		case b.flushCh <- struct{}{}:
		default:
		}
	}
}

// flushLoop is the dedicated lane: every flush cycle and the periodic
// forced flush run here, so downstream flush calls are never concurrent.
func (b *Bridge) flushLoop() {
	defer b.lane.Done()
	ticker := time.NewTicker(b.linger)
	defer ticker.Stop()
	for {
		select {
		case <-b.flushCh:
			b.flush()
		case <-ticker.C:
			b.flush()
		case <-b.quitCh:
			// run a final flush if one was scheduled before shutdown
			select {
			case <-b.flushCh:
				b.flush()
			default:
			}
			return
		}
	}
}

// flush is one cycle: non-empty check, single-flight guard, boundary
// capture, downstream flush with the current snapshot, then ack or fail
// everything up to and including the boundary.
func (b *Bridge) flush() {
	logging.L().Debug("flush requested",
		"pending", b.currentBatchSize.Load(), "maxBatchSize", b.maxBatchSize)

	if b.pending.empty() {
		return
	}
	if !b.flushRunning.CompareAndSwap(false, true) {
		return
	}
	defer b.flushRunning.Store(false)

	boundary := b.pending.last()
	offsets := b.taskCtx.CurrentOffsets()
	if err := b.task.Flush(offsets); err != nil {
		logging.L().Error("error flushing pending records", "err", err)
		b.metrics.FlushCycles.WithLabelValues("error").Inc()
		b.completeUntil(boundary, false)
		return
	}
	if err := b.taskCtx.FlushOffsets(offsets); err != nil {
		logging.L().Error("error persisting offset snapshot", "err", err)
		b.metrics.FlushCycles.WithLabelValues("error").Inc()
		b.completeUntil(boundary, false)
		return
	}
	b.metrics.FlushCycles.WithLabelValues("ok").Inc()
	b.completeUntil(boundary, true)
}

// completeUntil drains the queue head through the boundary marker
// inclusive, acking on success and failing otherwise. Entries admitted
// after the boundary stay queued for the next cycle.
func (b *Bridge) completeUntil(boundary *pendingEntry, acked bool) {
	for {
		e := b.pending.popHead()
		if e == nil {
			return
		}
		if acked {
			e.rec.Ack()
			b.metrics.RecordsAcked.Inc()
		} else {
			e.rec.Fail()
			b.metrics.RecordsFailed.WithLabelValues("flush").Inc()
		}
		b.currentBatchSize.Add(-e.size)
		b.metrics.PendingBytes.Sub(float64(e.size))
		b.metrics.PendingRecords.Dec()
		if e == boundary {
			return
		}
	}
}

// Close stops admission, forces a final flush, drains the lane for up
// to ten linger intervals, then stops the task and connector. A drain
// timeout is reported but does not abort the remaining steps; pending
// entries stay unacknowledged and the upstream redelivers them.
func (b *Bridge) Close() error {
	b.running.Store(false)
	b.flushIfNeeded(true)
	close(b.quitCh)

	drained := make(chan struct{})
	go func() {
		b.lane.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(10 * b.linger):
		logging.L().Error("flush lane did not drain", "waited", 10*b.linger)
	}

	var errs []error
	if err := b.task.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("task stop: %w", err))
	}
	if err := b.connector.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("connector stop: %w", err))
	}
	b.taskCtx.close()

	logging.L().Info("bridge stopped")
	return errors.Join(errs...)
}

// CurrentOffset reports the watermark for one partition, -1 if none.
func (b *Bridge) CurrentOffset(topic string, partition int) int64 {
	return b.taskCtx.CurrentOffset(topic, partition)
}
