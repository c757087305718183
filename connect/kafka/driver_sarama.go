// Package kafka is a compiled-in connector that writes sink records to a
// Kafka cluster. Put buffers records; Flush sends the buffered batch
// synchronously, so a successful Flush means the batch is durable per
// the producer's acks setting.
package kafka

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/IBM/sarama"

	"sinkbridge/connect"
	"sinkbridge/internal/logging"
)

const (
	propBrokers = "bootstrap.servers"
	propAcks    = "acks"
	propVersion = "version"
)

type connector struct {
	props map[string]string
	task  *task
}

func (c *connector) Start(props map[string]string) error {
	if props[propBrokers] == "" {
		return fmt.Errorf("kafka-connector: %q is not set", propBrokers)
	}
	c.props = props
	c.task = &task{}
	return nil
}

func (c *connector) TaskConfigs(maxTasks int) ([]map[string]string, error) {
	if maxTasks < 1 {
		return nil, fmt.Errorf("kafka-connector: maxTasks %d < 1", maxTasks)
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
	ctx connect.TaskContext

	mu  sync.Mutex
	p   sarama.SyncProducer
	buf []*sarama.ProducerMessage
}

func (t *task) Initialize(ctx connect.TaskContext) { t.ctx = ctx }

func (t *task) Start(props map[string]string) error {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	// the bridge assigns partitions; honor them
	sc.Producer.Partitioner = sarama.NewManualPartitioner
	if v := props[propVersion]; v != "" {
		ver, err := sarama.ParseKafkaVersion(v)
		if err != nil {
			return err
		}
		sc.Version = ver
	}
	sc.Producer.RequiredAcks = sarama.WaitForAll
	if v := props[propAcks]; v != "" {
		acks, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("kafka-task: bad %q: %w", propAcks, err)
		}
		sc.Producer.RequiredAcks = sarama.RequiredAcks(acks)
	}

	p, err := sarama.NewSyncProducer(strings.Split(props[propBrokers], ","), sc)
	if err != nil {
		return err
	}
	t.p = p
	logging.L().Info("kafka task started",
		"brokers", props[propBrokers],
		"offsetStorage", props[connect.OffsetStorageConfig],
		"serviceURL", props[connect.ServiceURLConfig])
	return nil
}

func (t *task) Put(records []connect.SinkRecord) error {
	msgs := make([]*sarama.ProducerMessage, 0, len(records))
	for _, r := range records {
		key, err := encodeField(r.Key)
		if err != nil {
			return fmt.Errorf("kafka-task: key of %s-%d@%d: %w", r.Topic, r.Partition, r.Offset, err)
		}
		value, err := encodeField(r.Value)
		if err != nil {
			return fmt.Errorf("kafka-task: value of %s-%d@%d: %w", r.Topic, r.Partition, r.Offset, err)
		}
		msg := &sarama.ProducerMessage{
			Topic:     r.Topic,
			Partition: int32(r.Partition),
			Key:       key,
			Value:     value,
		}
		if r.TimestampType == connect.CreateTime {
			msg.Timestamp = r.Timestamp
		}
		msgs = append(msgs, msg)
	}
	t.mu.Lock()
	t.buf = append(t.buf, msgs...)
	t.mu.Unlock()
	return nil
}

// Flush sends everything buffered since the last flush. The buffer is
// cleared on failure too: the bridge fails the batch upstream and the
// records come back through Put on redelivery.
func (t *task) Flush(offsets map[connect.TopicPartition]int64) error {
	t.mu.Lock()
	batch := t.buf
	t.buf = nil
	t.mu.Unlock()

	if len(batch) > 0 {
		if err := t.p.SendMessages(batch); err != nil {
			return err
		}
	}
	logging.L().Debug("kafka task flushed", "records", len(batch), "partitions", len(offsets))
	return nil
}

func (t *task) Stop() error {
	if t.p == nil {
		return nil
	}
	return t.p.Close()
}

func encodeField(v any) (sarama.Encoder, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return sarama.ByteEncoder(x), nil
	case string:
		return sarama.StringEncoder(x), nil
	case bool:
		return sarama.StringEncoder(strconv.FormatBool(x)), nil
	case int8:
		return sarama.StringEncoder(strconv.FormatInt(int64(x), 10)), nil
	case int16:
		return sarama.StringEncoder(strconv.FormatInt(int64(x), 10)), nil
	case int32:
		return sarama.StringEncoder(strconv.FormatInt(int64(x), 10)), nil
	case int:
		return sarama.StringEncoder(strconv.FormatInt(int64(x), 10)), nil
	case int64:
		return sarama.StringEncoder(strconv.FormatInt(x, 10)), nil
	case float32:
		return sarama.StringEncoder(strconv.FormatFloat(float64(x), 'g', -1, 32)), nil
	case float64:
		return sarama.StringEncoder(strconv.FormatFloat(x, 'g', -1, 64)), nil
	}
	return nil, fmt.Errorf("unsupported field type %T", v)
}

func init() { connect.Register("kafka", func() connect.Connector { return &connector{} }) }
