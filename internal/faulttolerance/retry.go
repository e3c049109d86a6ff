// Package faulttolerance provides startup connection retries for the
// external services the analyzer depends on.
package faulttolerance

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds retry configuration for service connections.
type Config struct {
	// MaxAttempts is the total number of connection attempts. Defaults to 5.
	MaxAttempts int
	// Delay is the fixed wait between attempts. Defaults to 5s.
	Delay time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.Delay <= 0 {
		c.Delay = 5 * time.Second
	}
	return c
}

// Connect dials a service with a fixed retry schedule. Exhausting every
// attempt is fatal; the analyzer cannot run degraded without its stores,
// so the process exits through the logger instead of limping on.
func Connect[T any](ctx context.Context, log *logrus.Logger, name string, cfg Config, dial func() (T, error)) T {
	cfg = cfg.withDefaults()

	var zero T
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		conn, err := dial()
		if err == nil {
			log.WithField("service", name).Info("connected")
			return conn
		}

		log.WithFields(logrus.Fields{
			"service": name,
			"attempt": attempt,
			"max":     cfg.MaxAttempts,
			"delay":   cfg.Delay.String(),
		}).WithError(err).Warn("connection failed, retrying")

		if attempt == cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			log.WithField("service", name).Fatal("connection canceled during startup")
			return zero
		case <-time.After(cfg.Delay):
		}
	}

	log.WithFields(logrus.Fields{
		"service":  name,
		"attempts": cfg.MaxAttempts,
	}).Fatal("could not connect, giving up")
	return zero
}
