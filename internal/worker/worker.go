// Package worker consumes gallery events from the queue and keeps an audit trail of them
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/UnendingLoop/DroneGallery/internal/model"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/zlog"
)

// Committer is satisfied by *wbf/kafka.Consumer
type Committer interface {
	Commit(ctx context.Context, msg kafkago.Message) error
}

// Stats - счетчики обработанных событий
type Stats struct {
	Uploaded  int
	Deleted   int
	Malformed int
}

type Worker struct {
	queue    <-chan kafkago.Message
	consumer Committer

	mu    sync.Mutex
	stats Stats
	last  map[string]model.GalleryEvent // последнее событие по каждой сессии
}

func NewWorkerInstance(q <-chan kafkago.Message, cons Committer) *Worker {
	return &Worker{queue: q, consumer: cons, last: make(map[string]model.GalleryEvent)}
}

func (w *Worker) StartWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-w.queue:
			if !ok {
				zlog.Logger.Info().Msg("Queue channel closed, stopping worker...")
				return
			}
			if err := w.handle(msg); err != nil {
				zlog.Logger.Warn().Err(err).Str("key", string(msg.Key)).Msg("Skipping gallery event")
			}
			// битые сообщения тоже коммитим, иначе они будут приходить снова
			if err := w.consumer.Commit(ctx, msg); err != nil {
				zlog.Logger.Error().Err(err).Msg("Failed to commit queue-message")
			}
		}
	}
}

func (w *Worker) handle(msg kafkago.Message) error {
	var ev model.GalleryEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		w.count(func(s *Stats) { s.Malformed++ })
		return fmt.Errorf("decode event: %w", err)
	}

	switch ev.Type {
	case model.EventPhotoUploaded:
		w.count(func(s *Stats) { s.Uploaded++ })
	case model.EventPhotoDeleted:
		w.count(func(s *Stats) { s.Deleted++ })
	default:
		w.count(func(s *Stats) { s.Malformed++ })
		return fmt.Errorf("unknown event type %q", ev.Type)
	}

	w.mu.Lock()
	w.last[ev.SessionID] = ev
	w.mu.Unlock()

	zlog.Logger.Info().
		Str("type", string(ev.Type)).
		Int("photo_id", ev.PhotoID).
		Str("filename", ev.Filename).
		Str("session", ev.SessionID).
		Time("created_at", ev.CreatedAt).
		Msg("Gallery event")
	return nil
}

func (w *Worker) count(fn func(*Stats)) {
	w.mu.Lock()
	fn(&w.stats)
	w.mu.Unlock()
}

func (w *Worker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// LastEvent returns the most recent valid event seen for a session
func (w *Worker) LastEvent(sessionID string) (model.GalleryEvent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ev, ok := w.last[sessionID]
	return ev, ok
}
