package service

import (
	"context"
	"testing"
	"time"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/UnendingLoop/DroneGallery/internal/storage"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T, ttl time.Duration) (*Sessions, *int, *storage.MemoryStorage) {
	t.Helper()
	loads := 0
	api := &mockAPI{listFn: func(ctx context.Context) ([]model.Photo, error) {
		loads++
		return []model.Photo{{ID: 1, OriginalFilename: "a.jpg"}}, nil
	}}
	pending := storage.NewMemoryStorage()
	factory := func(id string) *GalleryService {
		return NewGalleryService(api, pending, nil, Options{Mode: model.ModeBasic, Messages: msgs, SessionID: id})
	}
	return NewSessions(factory, ttl), &loads, pending
}

func TestSessions_GetCreatesAndLoadsOnce(t *testing.T) {
	ss, loads, _ := newTestSessions(t, time.Minute)

	svc, id := ss.Get(context.Background(), "")
	require.NotEmpty(t, id)
	require.Equal(t, 1, *loads)
	require.Len(t, svc.Snapshot().Photos, 1)

	again, sameID := ss.Get(context.Background(), id)
	require.Same(t, svc, again)
	require.Equal(t, id, sameID)
	require.Equal(t, 1, *loads)
	require.Equal(t, 1, ss.Len())
}

func TestSessions_UnknownIDGetsFreshSession(t *testing.T) {
	ss, _, _ := newTestSessions(t, time.Minute)

	_, id := ss.Get(context.Background(), "forged")
	require.NotEqual(t, "forged", id)
}

func TestSessions_EvictIdle(t *testing.T) {
	ss, _, pending := newTestSessions(t, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }

	old, oldID := ss.Get(context.Background(), "")
	selectFile(t, old, "f.jpg", "x")

	now = now.Add(45 * time.Second)
	_, freshID := ss.Get(context.Background(), "")

	now = now.Add(30 * time.Second)
	require.Equal(t, 1, ss.EvictIdle(context.Background()))
	require.Equal(t, 1, ss.Len())
	require.Equal(t, 0, pending.Len())

	_, id := ss.Get(context.Background(), freshID)
	require.Equal(t, freshID, id)
	_, id = ss.Get(context.Background(), oldID)
	require.NotEqual(t, oldID, id)
}

func TestSessions_EvictDisabled(t *testing.T) {
	ss, _, _ := newTestSessions(t, 0)
	ss.Get(context.Background(), "")
	require.Equal(t, 0, ss.EvictIdle(context.Background()))
}

func TestSessions_CloseAll(t *testing.T) {
	ss, _, pending := newTestSessions(t, time.Minute)
	svc, _ := ss.Get(context.Background(), "")
	selectFile(t, svc, "f.jpg", "x")

	ss.CloseAll(context.Background())
	require.Equal(t, 0, ss.Len())
	require.Equal(t, 0, pending.Len())
}
