package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotStore keeps the last list a session fetched successfully so a
// failed refresh can still show something, marked stale.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

type snapshotEnvelope struct {
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

// NewSnapshotStore constructs a SnapshotStore. A nil client disables it.
func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SnapshotStore{client: client, ttl: ttl, now: time.Now}
}

// Save stores value for the session and resource.
func (s *SnapshotStore) Save(ctx context.Context, sessionID, resource string, value any) error {
	if s == nil || s.client == nil || sessionID == "" {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", resource, err)
	}
	payload, err := json.Marshal(snapshotEnvelope{SavedAt: s.now().UTC(), Data: raw})
	if err != nil {
		return fmt.Errorf("snapshot: encode envelope: %w", err)
	}
	return s.client.Set(ctx, snapshotKey(sessionID, resource), payload, s.ttl).Err()
}

// Load decodes the stored list into dest. ok is false when nothing is stored.
func (s *SnapshotStore) Load(ctx context.Context, sessionID, resource string, dest any) (savedAt time.Time, ok bool, err error) {
	if s == nil || s.client == nil || sessionID == "" {
		return time.Time{}, false, nil
	}
	payload, err := s.client.Get(ctx, snapshotKey(sessionID, resource)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	var env snapshotEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return time.Time{}, false, fmt.Errorf("snapshot: decode envelope: %w", err)
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return time.Time{}, false, fmt.Errorf("snapshot: decode %s: %w", resource, err)
	}
	return env.SavedAt, true, nil
}

// Drop removes every snapshot held for the session.
func (s *SnapshotStore) Drop(ctx context.Context, sessionID string) error {
	if s == nil || s.client == nil || sessionID == "" {
		return nil
	}
	iter := s.client.Scan(ctx, 0, snapshotKey(sessionID, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func snapshotKey(sessionID, resource string) string {
	return "listing:" + sessionID + ":" + resource
}
