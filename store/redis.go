package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "guinote:table:"
	maxTxAttempts = 10
)

// RedisGameStore keeps one JSON snapshot per table. Updates are optimistic: the
// key is watched and the write retried if another writer got there first.
type RedisGameStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisGameStore(rdb *redis.Client, logger *zap.Logger) *RedisGameStore {
	return &RedisGameStore{rdb: rdb, logger: logger}
}

func tableKey(gameID string) string {
	return keyPrefix + gameID
}

func decodeTable(data []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("decode table: %w", err)
	}
	if t.Match != nil {
		if err := t.Match.State.Validate(); err != nil {
			return Table{}, fmt.Errorf("table %s: %w", t.ID, err)
		}
	}
	return t, nil
}

func (s *RedisGameStore) FindGame(ctx context.Context, gameID string) (Table, error) {
	data, err := s.rdb.Get(ctx, tableKey(gameID)).Bytes()
	if err == redis.Nil {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownGameID, gameID)
	}
	if err != nil {
		return Table{}, fmt.Errorf("load table %s: %w", gameID, err)
	}
	return decodeTable(data)
}

func (s *RedisGameStore) AddGame(ctx context.Context, t Table) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	ok, err := s.rdb.SetNX(ctx, tableKey(t.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("save table %s: %w", t.ID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDuplicateGameID, t.ID)
	}
	return nil
}

func (s *RedisGameStore) UpdateGame(ctx context.Context, gameID string, fn func(t *Table) error) (Table, error) {
	key := tableKey(gameID)
	var result Table

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return fmt.Errorf("%w: %s", ErrUnknownGameID, gameID)
		}
		if err != nil {
			return err
		}
		t, err := decodeTable(data)
		if err != nil {
			return err
		}

		result = t
		working := t.clone()
		if err := fn(&working); err != nil {
			return err
		}
		out, err := json.Marshal(working)
		if err != nil {
			return fmt.Errorf("encode table: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err == nil {
			result = working
		}
		return err
	}

	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug("table changed during update, retrying",
				zap.String("game_id", gameID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return result, err
	}
	return result, fmt.Errorf("update table %s: gave up after %d attempts", gameID, maxTxAttempts)
}

func (s *RedisGameStore) DeleteGame(ctx context.Context, gameID string) error {
	n, err := s.rdb.Del(ctx, tableKey(gameID)).Result()
	if err != nil {
		return fmt.Errorf("delete table %s: %w", gameID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownGameID, gameID)
	}
	return nil
}
