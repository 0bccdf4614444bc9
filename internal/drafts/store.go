package drafts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "deal_draft_"

// Snapshot is the stored draft document.
type Snapshot struct {
	FormData json.RawMessage `json:"formData"`
	DraftID  string          `json:"draftId"`
	SavedAt  time.Time       `json:"savedAt"`
}

// Store persists draft snapshots in Redis under deal_draft_<user-id>.
// This is best-effort recovery storage, not a durability guarantee: callers
// log failures and keep going.
type Store struct {
	Rdb *redis.Client
	TTL time.Duration
}

// NewStore returns a Store with the 24-hour acceptance window.
func NewStore(rdb *redis.Client) *Store {
	return &Store{Rdb: rdb, TTL: 24 * time.Hour}
}

func (s *Store) key(userID string) string {
	return keyPrefix + userID
}

// Save serializes the form data with the current timestamp, overwriting any
// prior snapshot for the user.
func (s *Store) Save(ctx context.Context, userID, draftID string, formData interface{}) (time.Time, error) {
	raw, err := json.Marshal(formData)
	if err != nil {
		return time.Time{}, err
	}
	now := time.Now()
	snap := Snapshot{FormData: raw, DraftID: draftID, SavedAt: now}
	b, err := json.Marshal(snap)
	if err != nil {
		return time.Time{}, err
	}
	if err := s.Rdb.Set(ctx, s.key(userID), b, s.TTL).Err(); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

// Load fetches the user's snapshot. Snapshots older than the acceptance
// window are discarded even if the key somehow outlived its TTL (e.g. a
// restored Redis backup). Returns ok=false when nothing usable exists.
func (s *Store) Load(ctx context.Context, userID string) (*Snapshot, bool, error) {
	b, err := s.Rdb.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, false, err
	}
	if time.Since(snap.SavedAt) > s.TTL {
		return nil, false, nil
	}
	return &snap, true, nil
}

// Clear deletes the user's snapshot. Called after a successful publish only;
// failed publishes leave the snapshot intact for retry.
func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.Rdb.Del(ctx, s.key(userID)).Err()
}
