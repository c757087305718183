// Package connect defines the contract between the bridge and a
// batch-oriented sink connector: the record shape handed downstream,
// the connector/task lifecycle, and the task context through which a
// task reads and persists per-partition committed offsets.
package connect

import (
	"fmt"
	"time"
)

// Config keys the bridge injects into every task config.
const (
	OffsetStorageConfig = "offset.storage.topic"
	ServiceURLConfig    = "bridge.service.url"
)

// Schema identifies the wire schema of a sink record's key or value.
type Schema int

const (
	SchemaUnknown Schema = iota
	SchemaBoolean
	SchemaInt8
	SchemaInt16
	SchemaInt32
	SchemaInt64
	SchemaFloat32
	SchemaFloat64
	SchemaString
	SchemaBytes
)

func (s Schema) String() string {
	switch s {
	case SchemaBoolean:
		return "boolean"
	case SchemaInt8:
		return "int8"
	case SchemaInt16:
		return "int16"
	case SchemaInt32:
		return "int32"
	case SchemaInt64:
		return "int64"
	case SchemaFloat32:
		return "float32"
	case SchemaFloat64:
		return "float64"
	case SchemaString:
		return "string"
	case SchemaBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// TimestampType tags the semantics of a SinkRecord timestamp.
type TimestampType int

const (
	NoTimestampType TimestampType = iota
	CreateTime
	LogAppendTime
)

func (t TimestampType) String() string {
	switch t {
	case CreateTime:
		return "create-time"
	case LogAppendTime:
		return "log-append-time"
	default:
		return "no-timestamp"
	}
}

// TopicPartition addresses one partition of one topic.
type TopicPartition struct {
	Topic     string
	Partition int
}

func (tp TopicPartition) String() string {
	return fmt.Sprintf("%s-%d", tp.Topic, tp.Partition)
}

// SinkRecord is the immutable downstream projection of one upstream record.
type SinkRecord struct {
	Topic         string
	Partition     int
	KeySchema     Schema
	Key           any
	ValueSchema   Schema
	Value         any
	Offset        int64
	Timestamp     time.Time
	TimestampType TimestampType
}

// TaskContext is handed to a Task at initialization. It exposes the
// bridge's per-partition progress and the upstream subscription model.
type TaskContext interface {
	CurrentOffsets() map[TopicPartition]int64
	CurrentOffset(topic string, partition int) int64
	UpdateLastOffset(tp TopicPartition, offset int64)
	FlushOffsets(offsets map[TopicPartition]int64) error
	Subscription() string
}

// Task consumes sink records in bulk. Put hands records over; Flush
// requests a durable commit of everything put so far, with the offset
// snapshot the commit covers. Both may be called from different
// goroutines but Flush is never called concurrently with itself.
type Task interface {
	Initialize(ctx TaskContext)
	Start(props map[string]string) error
	Put(records []SinkRecord) error
	Flush(offsets map[TopicPartition]int64) error
	Stop() error
}

// Connector owns task construction and connector-level lifecycle.
type Connector interface {
	Start(props map[string]string) error
	TaskConfigs(maxTasks int) ([]map[string]string, error)
	Task() Task
	Stop() error
}

/*──────── registry ───────*/

type factory = func() Connector

var reg = map[string]factory{}

// Register is called from each connector's init() or from main().
func Register(name string, f factory) { reg[name] = f }

// New instantiates a connector by its registered name.
func New(name string) (Connector, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown connector %q", name)
}
