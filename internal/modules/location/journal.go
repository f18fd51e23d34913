package location

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ecoexplorer/core/internal/pkg/redis"
	"github.com/google/uuid"
)

const journalKey = "locations:journal"

// Entry marks blobs written (or left behind) by an operation that has not
// yet been confirmed by a record write.
type Entry struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Blobs     []string  `json:"blobs"`
	CreatedAt time.Time `json:"createdAt"`
}

// Journal records pending multi-store operations.
type Journal interface {
	Begin(ctx context.Context, e Entry) (string, error)
	Commit(ctx context.Context, id string) error
	// Pending returns entries begun at least olderThan ago, oldest first.
	Pending(ctx context.Context, olderThan time.Duration) ([]Entry, error)
}

// RedisJournal keeps entries as JSON values of a single hash.
type RedisJournal struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

func NewRedisJournal(client *redis.Client) *RedisJournal {
	return &RedisJournal{client: client, key: journalKey, now: time.Now}
}

func (j *RedisJournal) Begin(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = j.now()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	if err := j.client.HSet(ctx, j.key, e.ID, payload); err != nil {
		return "", fmt.Errorf("journal begin: %w", err)
	}
	return e.ID, nil
}

func (j *RedisJournal) Commit(ctx context.Context, id string) error {
	if err := j.client.HDel(ctx, j.key, id); err != nil {
		return fmt.Errorf("journal commit: %w", err)
	}
	return nil
}

func (j *RedisJournal) Pending(ctx context.Context, olderThan time.Duration) ([]Entry, error) {
	raw, err := j.client.HGetAll(ctx, j.key)
	if err != nil {
		return nil, fmt.Errorf("journal pending: %w", err)
	}
	cutoff := j.now().Add(-olderThan)
	out := make([]Entry, 0, len(raw))
	for field, value := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(value), &e); err != nil {
			// Unreadable entries cannot be reconciled; drop them.
			_ = j.client.HDel(ctx, j.key, field)
			continue
		}
		if e.CreatedAt.After(cutoff) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}
