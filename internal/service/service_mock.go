package service

import (
	"context"
	"io"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	"github.com/wb-go/wbf/retry"
)

// MOCK IMAGE API

type mockAPI struct {
	listFn   func(ctx context.Context) ([]model.Photo, error)
	uploadFn func(ctx context.Context, in *model.UploadRequest) (string, error)
	deleteFn func(ctx context.Context, id int) error
}

func (m *mockAPI) List(ctx context.Context) ([]model.Photo, error) {
	return m.listFn(ctx)
}

func (m *mockAPI) Upload(ctx context.Context, in *model.UploadRequest) (string, error) {
	return m.uploadFn(ctx, in)
}

func (m *mockAPI) Delete(ctx context.Context, id int) error {
	return m.deleteFn(ctx, id)
}

// MOCK STORAGE

type mockStorage struct {
	putFn    func(ctx context.Context, key string, size int64, ct string, r io.Reader) error
	getFn    func(ctx context.Context, key string) (io.ReadCloser, string, error)
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockStorage) Put(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
	return m.putFn(ctx, key, size, ct, r)
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return m.getFn(ctx, key)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.deleteFn(ctx, key)
}

// MOCK PUBLISHER

type mockPublisher struct {
	sendFn func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error
}

func (m *mockPublisher) SendWithRetry(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
	return m.sendFn(ctx, s, key, v)
}
