package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"turnos/common/constant"
	commonJs "turnos/common/jetstream"
	"turnos/inbound/event"
	emailOutbound "turnos/outbound/email"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/viper"
)

type eventHandler func(ctx context.Context, subject string, data []byte) error

func runQueueEmailCmd(ctx context.Context) {
	cfg := newCfg("env")

	if cfg.GetString("env") == "dev" {
		cpu, err := os.Create("email-cpu.prof")
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer cpu.Close()

		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	shutdownTracing := newTracing(ctx, cfg)
	defer shutdownTracing()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	st := createStreamWorkQueue(ctx, js)

	outbound := &emailOutbound.EmailOutbound{Cfg: cfg}
	outbound.Init()

	timeout := cfg.GetDuration("queue.email.timeout")

	turnoEvent := event.TurnoEvent{
		Publisher: js,
		PublicURL: cfg.GetString("backend.public_url"),
		Timeout:   timeout,
	}

	emailEvent := event.EmailEvent{
		EmailOutbound: outbound,
		Timeout:       timeout,
	}

	turnoIter := consume(ctx, cfg, st, "consumer:turno", constant.TurnoWildcard, func(ctx context.Context, subject string, data []byte) error {
		switch subject {
		case constant.SubjectTurnoCreated:
			return turnoEvent.CreatedHandler(ctx, data)
		case constant.SubjectTurnoUpdated:
			return turnoEvent.UpdatedHandler(ctx, data)
		}
		// status and delete events carry nothing to mail
		return nil
	})

	emailIter := consume(ctx, cfg, st, "consumer:email", constant.EmailWildcard, func(ctx context.Context, subject string, data []byte) error {
		switch subject {
		case constant.SubjectSendEmail:
			return emailEvent.SendEmailHandler(ctx, data)
		}
		return nil
	})

	slog.InfoContext(ctx, "email queue consumer started")

	<-ctx.Done()

	turnoIter.Stop()
	emailIter.Stop()

	slog.InfoContext(ctx, "email queue consumer stopped")
}

// consume runs handle for every message of a durable consumer on filter. A
// handler error redelivers the message after a second.
func consume(ctx context.Context, cfg *viper.Viper, st jetstream.Stream, durable, filter string, handle eventHandler) jetstream.MessagesContext {
	cons, err := commonJs.CreateConsumer(ctx, st, commonJs.ConsumerConfig{
		Durable:    durable,
		Filter:     filter,
		MaxDeliver: cfg.GetInt("queue.email.max_deliver"),
		AckWait:    cfg.GetDuration("queue.email.ack_wait"),
	})
	if err != nil {
		log.Fatalln("failed to create consumer", err)
	}

	iter, err := cons.Messages()
	if err != nil {
		log.Fatalln("failed to open consumer messages", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := iter.Next()
				if err != nil {
					if err == jetstream.ErrMsgIteratorClosed {
						return
					}
					slog.ErrorContext(ctx, "Error fetching message", slog.Any(constant.LogFieldErr, err))
					continue
				}

				if msg == nil {
					continue
				}

				if eventErr := handle(ctx, msg.Subject(), msg.Data()); eventErr != nil {
					msg.NakWithDelay(1 * time.Second)
					continue
				}

				if err := msg.Ack(); err != nil {
					slog.ErrorContext(ctx, "Error acknowledging message",
						slog.Any(constant.LogFieldErr, err),
						slog.Any(constant.LogFieldPayload, string(msg.Data())),
						slog.String(constant.LogFieldSubject, msg.Subject()),
					)
					continue
				}
			}
		}
	}()

	return iter
}
