// Package exports queues list and dashboard reports for background rendering
// and hands the finished files back to the session that asked for them.
package exports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pharmacare/pharmacy-web/internal/platform/httpx"
)

// Status values of a queued export.
const (
	StatusPending = "pending"
	StatusReady   = "ready"
	StatusFailed  = "failed"
)

// ErrNotFound is returned for unknown or foreign job ids.
var ErrNotFound = fmt.Errorf("exports: job %w", httpx.ErrNotFound)

// Result is the stored state of one export job.
type Result struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Resource  string    `json:"resource"`
	Format    string    `json:"format"`
	Status    string    `json:"status"`
	Filename  string    `json:"filename,omitempty"`
	Error     string    `json:"error,omitempty"`
	Data      []byte    `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps export results in Redis under report:result:<id>.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs a Store. ttl defaults to one hour.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// Save writes res, restarting its TTL.
func (s *Store) Save(ctx context.Context, res Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("exports: encode %s: %w", res.ID, err)
	}
	return s.client.Set(ctx, resultKey(res.ID), payload, s.ttl).Err()
}

// Load reads the result for id.
func (s *Store) Load(ctx context.Context, id string) (Result, error) {
	payload, err := s.client.Get(ctx, resultKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}
	var res Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return Result{}, fmt.Errorf("exports: decode %s: %w", id, err)
	}
	return res, nil
}

func resultKey(id string) string {
	return "report:result:" + id
}
