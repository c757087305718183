package kafka

import (
	"context"

	"github.com/IBM/sarama"

	"sinkbridge/bridge"
	"sinkbridge/internal/logging"
)

type SaramaDriver struct {
	cfg     Config
	cl      sarama.Client
	group   sarama.ConsumerGroup
	limiter *inflightLimiter
}

func (d *SaramaDriver) Configure(config Config) error {
	d.cfg = config
	d.limiter = newInflightLimiter(config.MaxInFlight)

	sc := sarama.NewConfig()
	if config.Version != "" {
		ver, err := sarama.ParseKafkaVersion(config.Version)
		if err != nil {
			return err
		}
		sc.Version = ver
	}
	sc.Consumer.Return.Errors = true
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}
	switch config.StartFrom {
	case "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	var err error
	if d.cl, err = sarama.NewClient(config.Brokers, sc); err != nil {
		return err
	}
	d.group, err = sarama.NewConsumerGroupFromClient(config.GroupID, d.cl)
	return err
}

func (d *SaramaDriver) Subscription() bridge.SubscriptionType {
	return d.cfg.SubscriptionType()
}

func (d *SaramaDriver) Run(ctx context.Context, emit EmitFunc) error {
	handler := &groupHandler{driver: d, emit: emit}

	for {
		if err := d.group.Consume(ctx, d.cfg.Topics, handler); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (d *SaramaDriver) Close() error {
	_ = d.group.Close()
	_ = d.cl.Close()
	d.limiter.Close()
	return nil
}

type groupHandler struct {
	driver *SaramaDriver
	emit   EmitFunc
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error { return nil }

func (*groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(
	sess sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	d := h.driver
	for {
		select {
		case <-sess.Context().Done():
			return sess.Context().Err()

		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := d.limiter.Acquire(sess.Context()); err != nil {
				return err
			}

			rec := &sourceRecord{
				topic:     msg.Topic,
				partition: msg.Partition,
				offset:    msg.Offset,
				key:       msg.Key,
				value:     msg.Value,
				ts:        msg.Timestamp,
				rawKey:    d.cfg.RawKey,
			}
			// MarkMessage only ever advances, so out-of-order acks from
			// the flush lane cannot move the committed offset backwards.
			rec.ack = func() {
				sess.MarkMessage(msg, "")
				d.limiter.Release()
			}
			rec.fail = func() {
				logging.L().Warn("record failed, leaving offset unmarked",
					"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
				d.limiter.Release()
			}
			h.emit(rec)
		}
	}
}

func init() { Register("sarama", func() Adapter { return &SaramaDriver{} }) }
