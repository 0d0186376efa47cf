package worker

import (
	"context"
	"sync"

	kafkago "github.com/segmentio/kafka-go"
)

type mockCommitter struct {
	mu        sync.Mutex
	committed []kafkago.Message
	commitFn  func(ctx context.Context, msg kafkago.Message) error
}

func (m *mockCommitter) Commit(ctx context.Context, msg kafkago.Message) error {
	m.mu.Lock()
	m.committed = append(m.committed, msg)
	m.mu.Unlock()
	if m.commitFn != nil {
		return m.commitFn(ctx, msg)
	}
	return nil
}

func (m *mockCommitter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}
