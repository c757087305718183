// Package stdout is a debug connector: records go to standard output,
// flushes just print the snapshot. Useful for poking at the bridge
// without a real cluster behind it.
package stdout

import (
	"fmt"
	"sync/atomic"
	"time"

	"sinkbridge/connect"
)

type connector struct {
	props map[string]string
	task  *task
}

func (c *connector) Start(props map[string]string) error {
	c.props = props
	c.task = &task{}
	if v := props["per_record_delay_ms"]; v != "" {
		var ms int
		if _, err := fmt.Sscanf(v, "%d", &ms); err != nil {
			return fmt.Errorf("stdout-connector: bad per_record_delay_ms %q", v)
		}
		c.task.delay = time.Duration(ms) * time.Millisecond
	}
	return nil
}

func (c *connector) TaskConfigs(maxTasks int) ([]map[string]string, error) {
	if maxTasks < 1 {
		return nil, fmt.Errorf("stdout-connector: maxTasks %d < 1", maxTasks)
	}
	cfg := make(map[string]string, len(c.props))
	for k, v := range c.props {
		cfg[k] = v
	}
	return []map[string]string{cfg}, nil
}

func (c *connector) Task() connect.Task { return c.task }

func (c *connector) Stop() error { return nil }

type task struct {
	ctx   connect.TaskContext
	delay time.Duration
	seq   atomic.Uint64
}

func (t *task) Initialize(ctx connect.TaskContext) { t.ctx = ctx }

func (t *task) Start(map[string]string) error { return nil }

func (t *task) Put(records []connect.SinkRecord) error {
	for _, r := range records {
		if t.delay > 0 {
			time.Sleep(t.delay)
		}
		fmt.Printf("[sink %06d] %s-%d@%d key=%v value=%v\n",
			t.seq.Add(1), r.Topic, r.Partition, r.Offset, r.Key, r.Value)
	}
	return nil
}

func (t *task) Flush(offsets map[connect.TopicPartition]int64) error {
	for tp, off := range offsets {
		fmt.Printf("[flush] %s => %d\n", tp, off)
	}
	return nil
}

func (t *task) Stop() error { return nil }

func init() { connect.Register("stdout", func() connect.Connector { return &connector{} }) }
