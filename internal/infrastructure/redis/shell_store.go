package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/internal/core/domain/shell"
	"github.com/newriverone/portal/internal/core/ports"
)

const generationsKey = "shell:generations"

// ShellStore persists response snapshots under generation-scoped keys
// (shell:<generation>:<path>), with the set of live generation names
// tracked separately so activation can sweep stale ones.
type ShellStore struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewShellStore(client *redis.Client, logger *logrus.Logger) *ShellStore {
	return &ShellStore{client: client, logger: logger}
}

func (s *ShellStore) key(generation, path string) string {
	return fmt.Sprintf("shell:%s:%s", generation, path)
}

// AddAll stores every snapshot in one transaction. Encoding happens before
// any write, so a bad snapshot cannot leave a partial shell set behind.
func (s *ShellStore) AddAll(ctx context.Context, generation string, snaps []*shell.Snapshot) error {
	encoded := make(map[string][]byte, len(snaps))
	for _, snap := range snaps {
		b, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot %s: %w", snap.Path, err)
		}
		encoded[s.key(generation, snap.Path)] = b
	}

	pipe := s.client.TxPipeline()
	for key, b := range encoded {
		pipe.Set(ctx, key, b, 0)
	}
	pipe.SAdd(ctx, generationsKey, generation)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store shell set: %w", err)
	}
	return nil
}

// Match looks up a snapshot by path within a generation.
func (s *ShellStore) Match(ctx context.Context, generation, path string) (*shell.Snapshot, bool, error) {
	b, err := s.client.Get(ctx, s.key(generation, path)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snap shell.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return &snap, true, nil
}

// Put stores one snapshot, replacing any previous entry for its path.
// Last writer wins per key.
func (s *ShellStore) Put(ctx context.Context, generation string, snap *shell.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", snap.Path, err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(generation, snap.Path), b, 0)
	pipe.SAdd(ctx, generationsKey, generation)
	_, err = pipe.Exec(ctx)
	return err
}

// Generations lists every generation with stored entries.
func (s *ShellStore) Generations(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, generationsKey).Result()
}

// Drop deletes a whole generation and unregisters its name.
func (s *ShellStore) Drop(ctx context.Context, generation string) error {
	pattern := s.key(generation, "*")
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan generation %s: %w", generation, err)
	}
	return s.client.SRem(ctx, generationsKey, generation).Err()
}

var _ ports.ShellStore = (*ShellStore)(nil)
