package wizard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PutGetRemove(t *testing.T) {
	r := NewRegistry(2 * time.Hour)
	defer r.Close()

	userID := uuid.New()
	_, ok := r.Get(userID)
	assert.False(t, ok)

	stopped := 0
	r.Put(userID, New(), "d1", func() { stopped++ })
	s, ok := r.Get(userID)
	require.True(t, ok)
	assert.NotNil(t, s.Wizard)
	assert.Equal(t, "d1", s.DraftID)
	assert.Equal(t, 1, r.Len())

	r.Remove(userID)
	_, ok = r.Get(userID)
	assert.False(t, ok)
	assert.Equal(t, 1, stopped)
}

func TestRegistry_PutReplacesAndStopsPrior(t *testing.T) {
	r := NewRegistry(2 * time.Hour)
	defer r.Close()

	userID := uuid.New()
	firstStopped := false
	r.Put(userID, New(), "d1", func() { firstStopped = true })

	second := New()
	r.Put(userID, second, "d2", func() {})
	assert.True(t, firstStopped)

	s, ok := r.Get(userID)
	require.True(t, ok)
	assert.Same(t, second, s.Wizard)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ReapEvictsIdleSessions(t *testing.T) {
	r := NewRegistry(2 * time.Hour)
	defer r.Close()

	userID := uuid.New()
	stopped := false
	r.Put(userID, New(), "d1", func() { stopped = true })

	// Reap from three hours in the future so the just-created session is past
	// the idle window.
	n := r.Reap(time.Now().Add(3 * time.Hour))
	assert.Equal(t, 1, n)
	assert.True(t, stopped)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ReapKeepsFreshSessions(t *testing.T) {
	r := NewRegistry(2 * time.Hour)
	defer r.Close()

	userID := uuid.New()
	r.Put(userID, New(), "d1", func() {})

	n := r.Reap(time.Now().Add(time.Hour))
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_CloseStopsEverything(t *testing.T) {
	r := NewRegistry(2 * time.Hour)
	stops := 0
	r.Put(uuid.New(), New(), "d1", func() { stops++ })
	r.Put(uuid.New(), New(), "d1", func() { stops++ })

	r.Close()
	assert.Equal(t, 2, stops)
	assert.Equal(t, 0, r.Len())
}
