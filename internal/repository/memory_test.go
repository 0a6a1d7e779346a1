package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/readytoeat/internal/model"
)

func TestMemoryRepository_SaveAndGet(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	s := &model.Session{
		ID:     "s1",
		Role:   model.RoleUser,
		Points: 700,
		Cart:   []model.CartLine{{ItemID: 3, Quantity: 2}},
	}
	require.NoError(t, r.SaveSession(ctx, s))

	// Изменение исходной структуры не должно влиять на сохранённую копию.
	s.Cart[0].Quantity = 99

	got, err := r.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Cart[0].Quantity)
	assert.Equal(t, int64(700), got.Points)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = r.GetSession(ctx, "missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestMemoryRepository_DeleteStale(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }
	require.NoError(t, r.SaveSession(ctx, &model.Session{ID: "old", Role: model.RoleGuest}))

	r.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, r.SaveSession(ctx, &model.Session{ID: "fresh", Role: model.RoleGuest}))

	n, err := r.DeleteSessionsBefore(ctx, base.Add(24*time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.GetSession(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, r.DeleteSession(ctx, "fresh"))
	_, err = r.GetSession(ctx, "fresh")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, isRetryable(context.Canceled))
	assert.True(t, isRetryable(errors.New("dial tcp: connection refused")))
	assert.False(t, isRetryable(errors.New("syntax error")))
}

func TestMemoryRepository_DeleteStaleKeepsListed(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }
	require.NoError(t, r.SaveSession(ctx, &model.Session{ID: "active", Role: model.RoleGuest}))
	require.NoError(t, r.SaveSession(ctx, &model.Session{ID: "idle", Role: model.RoleGuest}))

	n, err := r.DeleteSessionsBefore(ctx, base.Add(24*time.Hour), []string{"active"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.GetSession(ctx, "active")
	assert.NoError(t, err)
	_, err = r.GetSession(ctx, "idle")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
