// Package stream reads trade change events from the message broker and
// hands them to the analytics processor.
package stream

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// EventHandler processes one raw message value. Implementations own their
// error handling; a handled message is always committed.
type EventHandler interface {
	HandleEvent(ctx context.Context, value []byte)
}

// ReaderOptions configures the broker subscription.
type ReaderOptions struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewReader creates a consumer-group reader starting from the earliest
// uncommitted offset, so a fresh group replays the full topic history.
func NewReader(opts ReaderOptions) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     opts.Brokers,
		Topic:       opts.Topic,
		GroupID:     opts.GroupID,
		StartOffset: kafka.FirstOffset,
	})
}

// Consumer runs a sequential fetch, handle, commit loop. Events are
// processed strictly in offset order because the handler folds each one
// into per-trader rolling state.
type Consumer struct {
	reader  *kafka.Reader
	handler EventHandler
	log     *logrus.Logger
}

// NewConsumer creates a consumer over an already configured reader.
func NewConsumer(reader *kafka.Reader, handler EventHandler, log *logrus.Logger) *Consumer {
	return &Consumer{reader: reader, handler: handler, log: log}
}

// Run consumes until ctx is canceled, then closes the reader. The offset
// is committed only after the handler returns, so an event interrupted by
// shutdown is redelivered.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.WithFields(logrus.Fields{
		"topic": c.reader.Config().Topic,
		"group": c.reader.Config().GroupID,
	}).Info("consumer running, waiting for trade events")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			c.log.WithError(err).Error("failed to fetch message")
			continue
		}

		c.handler.HandleEvent(ctx, msg.Value)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				break
			}
			c.log.WithError(err).WithField("offset", msg.Offset).Error("failed to commit offset")
		}
	}

	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("close reader: %w", err)
	}
	c.log.Info("consumer shut down cleanly")
	return nil
}
