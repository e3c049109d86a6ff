package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/im-mahdi-74/FX-Cortex/internal/domain"
	"github.com/im-mahdi-74/FX-Cortex/internal/storage"
)

// NewClient creates a Redis client and verifies connectivity.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// StateStore implements storage.StateStore on Redis. Each trader's rolling
// state lives under trader_state:{trader_id} as one JSON string; writes
// overwrite the whole value (single-writer-per-key model).
type StateStore struct {
	client *goredis.Client
	logger *logrus.Logger
}

// NewStateStore creates a new StateStore.
func NewStateStore(client *goredis.Client, logger *logrus.Logger) *StateStore {
	if logger == nil {
		logger = logrus.New()
	}
	return &StateStore{client: client, logger: logger}
}

// Compile-time interface check.
var _ storage.StateStore = (*StateStore)(nil)

func stateKey(traderID int) string {
	return fmt.Sprintf("trader_state:%d", traderID)
}

// GetState returns the rolling state for a trader, or (nil, nil) when absent.
// A value that fails to decode is treated as absent: the trader restarts from
// a zeroed state rather than wedging the stream.
func (s *StateStore) GetState(ctx context.Context, traderID int) (*domain.TraderState, error) {
	data, err := s.client.Get(ctx, stateKey(traderID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get trader state %d: %w", traderID, err)
	}

	var state domain.TraderState
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.WithError(err).WithField("trader_id", traderID).
			Warn("corrupt trader state in redis, treating as absent")
		return nil, nil
	}
	return &state, nil
}

// SetState overwrites the rolling state for a trader. No TTL: state is
// retained indefinitely, keyed by trader id.
func (s *StateStore) SetState(ctx context.Context, traderID int, state *domain.TraderState) error {
	if state == nil {
		return storage.ErrInvalidInput
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal trader state %d: %w", traderID, err)
	}
	if err := s.client.Set(ctx, stateKey(traderID), data, 0).Err(); err != nil {
		return fmt.Errorf("set trader state %d: %w", traderID, err)
	}
	return nil
}
