package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tritonlifts/api/internal/models"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s, err := store.Open(ctx, &models.User{ID: 7, Email: "a@b.c"})
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, int64(7), s.UserID)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", got.Email)

	require.NoError(t, store.Close(ctx, s.ID))

	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.Close(ctx, s.ID), ErrSessionNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	s, err := store.Open(ctx, &models.User{ID: 1})
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = store.Get(ctx, s.ID)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.Save(ctx, s), ErrSessionNotFound)
}

func TestMemoryStoreSaveKeepsDraftsIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s, err := store.Open(ctx, &models.User{ID: 3})
	require.NoError(t, err)

	s.SetDraft(11, SetDraft{Weight: "80", Reps: "10"})
	require.NoError(t, store.Save(ctx, s))

	// mutating the caller's copy must not leak into the store
	s.SetDraft(11, SetDraft{Weight: "1"})

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, SetDraft{Weight: "80", Reps: "10"}, got.Draft(11))
	assert.Equal(t, SetDraft{}, got.Draft(12))
}

func TestSessionSetDraftZeroClears(t *testing.T) {
	s := &Session{}
	s.SetDraft(4, SetDraft{Reps: "5"})
	assert.Len(t, s.Drafts, 1)

	s.SetDraft(4, SetDraft{})
	assert.Empty(t, s.Drafts)

	var nilSession *Session
	assert.Equal(t, SetDraft{}, nilSession.Draft(4))
}
