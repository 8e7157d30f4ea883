package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"legal-literacy-portal/internal/config"
	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

const (
	defaultStreamName = "LEGALPORTAL_QUERIES"
	defaultSubject    = "queries.submitted"

	// notifierDurable survives notifier restarts so queued events are not lost
	notifierDurable = "query-notifier"

	// HeaderUrgency lets consumers filter without decoding the body
	HeaderUrgency = "Portal-Urgency"
)

// ErrNotConnected is returned while the connection is down
var ErrNotConnected = errors.New("nats: not connected")

// NATSPublisher carries property query events over a JetStream stream.
// The api process publishes and the notifier worker subscribes.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	stream  jetstream.Stream
	subject string
	logger  *logger.Logger
}

// queryStreamConfig keeps a week of submissions. Publishes carry the query id as
// message id, so a retried publish within the duplicate window is dropped.
func queryStreamConfig(cfg config.NATSConfig) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        cfg.StreamName,
		Description: "Property and legal assistance query submissions",
		Subjects:    []string{cfg.Subject},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		MaxMsgs:     50000,
		Discard:     jetstream.DiscardOld,
		Storage:     jetstream.FileStorage,
		Duplicates:  2 * time.Minute,
	}
}

// NewNATSPublisher connects and declares the query stream
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, log *logger.Logger) (*NATSPublisher, error) {
	log = log.WithComponent("nats")

	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.StreamName == "" {
		cfg.StreamName = defaultStreamName
	}
	if cfg.Subject == "" {
		cfg.Subject = defaultSubject
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("legal-literacy-portal"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, queryStreamConfig(cfg))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare stream %s: %w", cfg.StreamName, err)
	}

	log.Info().
		Str("url", cfg.URL).
		Str("stream", cfg.StreamName).
		Str("subject", cfg.Subject).
		Msg("query stream ready")

	return &NATSPublisher{
		conn:    conn,
		js:      js,
		stream:  stream,
		subject: cfg.Subject,
		logger:  log,
	}, nil
}

// Close drains pending publishes and closes the connection
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// Ping reports whether the connection is currently up
func (p *NATSPublisher) Ping(context.Context) error {
	if !p.conn.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// PublishQuerySubmitted announces a stored query. It carries no personal data beyond the query id.
func (p *NATSPublisher) PublishQuerySubmitted(ctx context.Context, event models.QuerySubmittedEvent) error {
	if !p.conn.IsConnected() {
		return ErrNotConnected
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode query event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set(HeaderUrgency, event.Urgency)

	ack, err := p.js.PublishMsg(ctx, msg, jetstream.WithMsgID(event.QueryID))
	if err != nil {
		return fmt.Errorf("failed to publish query event: %w", err)
	}

	p.logger.Debug().
		Str("query_id", event.QueryID).
		Uint64("seq", ack.Sequence).
		Bool("duplicate", ack.Duplicate).
		Msg("query event published")
	return nil
}

// Subscribe binds the durable notifier consumer and streams decoded events until ctx ends.
// Undecodable messages are terminated rather than redelivered.
func (p *NATSPublisher) Subscribe(ctx context.Context) (<-chan models.QuerySubmittedEvent, error) {
	consumer, err := p.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       notifierDurable,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
		FilterSubject: p.subject,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bind consumer %s: %w", notifierDurable, err)
	}

	iter, err := consumer.Messages()
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	out := make(chan models.QuerySubmittedEvent)
	go func() {
		<-ctx.Done()
		iter.Stop()
	}()
	go p.relay(ctx, iter, out)

	return out, nil
}

func (p *NATSPublisher) relay(ctx context.Context, iter jetstream.MessagesContext, out chan<- models.QuerySubmittedEvent) {
	defer close(out)

	for {
		msg, err := iter.Next()
		if err != nil {
			if !errors.Is(err, jetstream.ErrMsgIteratorClosed) {
				p.logger.Warn().Err(err).Msg("query consumer stopped")
			}
			return
		}

		var event models.QuerySubmittedEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			p.logger.Warn().Err(err).Str("subject", msg.Subject()).Msg("dropping undecodable query event")
			_ = msg.Term()
			continue
		}

		select {
		case out <- event:
			_ = msg.Ack()
		case <-ctx.Done():
			_ = msg.Nak()
			return
		}
	}
}
