package bridge

import (
	"errors"
	"fmt"
	"time"

	"sinkbridge/connect"
)

var errNoSequence = errors.New("record without a sequence id")

// translate projects one upstream record into the sink record shape and,
// on success, advances the offset tracker's watermark for the record's
// (topic, partition). Errors are fatal for the record, never retried.
func (b *Bridge) translate(rec Record) (connect.SinkRecord, error) {
	msg := rec.Message()

	partition := 0
	if p, ok := rec.PartitionIndex(); ok {
		partition = p
	}
	topic := b.topicName
	if t, ok := rec.TopicName(); ok {
		topic = t
	}

	var (
		key, value             any
		keySchema, valueSchema connect.Schema
		err                    error
	)

	if b.unwrapKeyValue && rec.Schema() != nil && rec.Schema().Type() == SchemaKeyValue {
		kvSchema, ok := rec.Schema().(KeyValueSchema)
		if !ok {
			return connect.SinkRecord{}, fmt.Errorf("key-value schema %T does not expose its component schemas", rec.Schema())
		}
		kv, ok := rec.Value().(KeyValue)
		if !ok {
			return connect.SinkRecord{}, fmt.Errorf("key-value tagged record carries %T, want KeyValue", rec.Value())
		}
		key, value = kv.Key, kv.Value
		if keySchema, err = sinkSchemaFor(kvSchema.KeySchema(), key); err != nil {
			return connect.SinkRecord{}, err
		}
		if valueSchema, err = sinkSchemaFor(kvSchema.ValueSchema(), value); err != nil {
			return connect.SinkRecord{}, err
		}
	} else {
		if msg.HasRawKey() {
			key = msg.KeyBytes()
			keySchema = connect.SchemaBytes
		} else {
			if k, ok := rec.Key(); ok {
				key = k
			}
			keySchema = connect.SchemaString
		}
		value = rec.Value()
		if valueSchema, err = sinkSchemaFor(rec.Schema(), value); err != nil {
			return connect.SinkRecord{}, err
		}
	}

	seq, ok := rec.RecordSequence()
	if !ok || seq < 0 {
		return connect.SinkRecord{}, errNoSequence
	}
	b.taskCtx.UpdateLastOffset(connect.TopicPartition{Topic: topic, Partition: partition}, seq)

	var ts time.Time
	tsType := connect.NoTimestampType
	if et, ok := rec.EventTime(); ok {
		ts = et
		tsType = connect.CreateTime
	} else {
		// publish time is not a log append time; keep NoTimestampType
		ts = msg.PublishTime()
	}

	return connect.SinkRecord{
		Topic:         topic,
		Partition:     partition,
		KeySchema:     keySchema,
		Key:           key,
		ValueSchema:   valueSchema,
		Value:         value,
		Offset:        seq,
		Timestamp:     ts,
		TimestampType: tsType,
	}, nil
}
