package drafts

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return NewStore(rdb), mr
}

type draftDoc struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func TestStore_SaveAndLoad(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	savedAt, err := s.Save(ctx, "user-1", "draft-abc", draftDoc{Title: "Sunset Gardens"})
	require.NoError(t, err)
	assert.False(t, savedAt.IsZero())

	snap, ok, err := s.Load(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "draft-abc", snap.DraftID)
	assert.WithinDuration(t, savedAt, snap.SavedAt, time.Second)

	var doc draftDoc
	require.NoError(t, json.Unmarshal(snap.FormData, &doc))
	assert.Equal(t, "Sunset Gardens", doc.Title)
}

func TestStore_LoadMissingKey(t *testing.T) {
	s, _ := setupStore(t)
	snap, ok, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestStore_KeyIsPerUser(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "user-1", "d1", draftDoc{Title: "A"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("deal_draft_user-1"))

	_, ok, err := s.Load(ctx, "user-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SaveOverwritesPriorSnapshot(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "user-1", "d1", draftDoc{Title: "First"})
	require.NoError(t, err)
	_, err = s.Save(ctx, "user-1", "d2", draftDoc{Title: "Second"})
	require.NoError(t, err)

	snap, ok, err := s.Load(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "d2", snap.DraftID)
}

func TestStore_StaleSnapshotRejected(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	// Write a snapshot dated 25 hours back directly, as if the key outlived
	// its TTL (restored backup).
	snap := Snapshot{
		FormData: json.RawMessage(`{"title":"Old"}`),
		DraftID:  "stale",
		SavedAt:  time.Now().Add(-25 * time.Hour),
	}
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, mr.Set("deal_draft_user-1", string(b)))

	_, ok, err := s.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_TTLSetOnSave(t *testing.T) {
	s, mr := setupStore(t)
	_, err := s.Save(context.Background(), "user-1", "d1", draftDoc{Title: "A"})
	require.NoError(t, err)

	ttl := mr.TTL("deal_draft_user-1")
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestStore_Clear(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "user-1", "d1", draftDoc{Title: "A"})
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx, "user-1"))
	assert.False(t, mr.Exists("deal_draft_user-1"))

	// Clearing an absent key is not an error.
	assert.NoError(t, s.Clear(ctx, "user-1"))
}

func TestStore_CorruptSnapshotErrors(t *testing.T) {
	s, mr := setupStore(t)
	require.NoError(t, mr.Set("deal_draft_user-1", "{not json"))

	_, ok, err := s.Load(context.Background(), "user-1")
	assert.Error(t, err)
	assert.False(t, ok)
}
