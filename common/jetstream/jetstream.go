package jetstream

import (
	"context"
	"time"

	"turnos/common/constant"

	"github.com/nats-io/nats.go/jetstream"
)

// CreateQueueStream creates the work-queue stream every turno and email event
// is published to. Each message is removed once one consumer acks it.
func CreateQueueStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	cfg := jetstream.StreamConfig{
		Name:      constant.QueueStreamName,
		Retention: jetstream.WorkQueuePolicy,
		Subjects:  []string{constant.AllWildcard},
		MaxBytes:  5 * 1024 * 1024,
	}

	return js.CreateOrUpdateStream(ctx, cfg)
}

// ConsumerConfig describes one durable consumer of the queue stream. Filters
// of consumers on the same stream must not overlap.
type ConsumerConfig struct {
	Durable    string
	Filter     string
	MaxDeliver int
	AckWait    time.Duration
}

func CreateConsumer(ctx context.Context, st jetstream.Stream, cfg ConsumerConfig) (jetstream.Consumer, error) {
	return st.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       cfg.Durable,
		FilterSubject: cfg.Filter,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    cfg.MaxDeliver,
		AckWait:       cfg.AckWait,
	})
}
