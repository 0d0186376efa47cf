// Package storage stages selected upload files until they are submitted
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/UnendingLoop/DroneGallery/internal/config"
	"github.com/UnendingLoop/DroneGallery/internal/storage/miniostorage"
	"github.com/wb-go/wbf/zlog"
)

var ErrBlobNotFound = errors.New("staged file not found")

// PendingStorage - контракт хранилища выбранных, но еще не загруженных файлов
type PendingStorage interface {
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// NewPendingStorage returns the backend named by cfg.PendingStorage.
// MinIO connection is retried attempts times with delay between tries.
func NewPendingStorage(ctx context.Context, cfg *config.AppConfig, delay time.Duration, attempts int) (PendingStorage, error) {
	if cfg.PendingStorage != config.StorageMinio {
		zlog.Logger.Info().Msg("Using in-memory storage for pending uploads")
		return NewMemoryStorage(), nil
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		zlog.Logger.Info().Int("attempt", i).Msg("Connecting to pending-upload storage...")
		client, err := miniostorage.NewMinioClient(ctx, cfg.Minio)
		if err == nil {
			zlog.Logger.Info().Msg("Successfully connected pending-upload storage!")
			return client, nil
		}
		lastErr = err
		zlog.Logger.Warn().Err(err).Msgf("Failed to connect pending-upload storage. Next retry in %v...", delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("pending-upload storage unavailable after %d attempts: %w", attempts, lastErr)
}

type blob struct {
	data  []byte
	ctype string
}

// MemoryStorage keeps blobs in process memory; contents die with the process
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string]blob)}
}

func (s *MemoryStorage) Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error {
	if r == nil {
		return errors.New("nil reader passed to storage.Put")
	}

	var buf bytes.Buffer
	if size > 0 {
		buf.Grow(int(size))
	}
	if _, err := io.Copy(&buf, r); err != nil {
		return fmt.Errorf("read staged file %q: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.blobs[key] = blob{data: buf.Bytes(), ctype: contentType}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.RLock()
	b, ok := s.blobs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrBlobNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(b.data)), b.ctype, nil
}

// Delete is idempotent, same as removing a missing object in MinIO
func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
