package service

import (
	"context"
	"sync"
	"time"

	"github.com/UnendingLoop/DroneGallery/internal/mwlogger"
	"github.com/google/uuid"
)

// Factory builds a fresh gallery store for a new session id
type Factory func(sessionID string) *GalleryService

type sessionEntry struct {
	svc      *GalleryService
	lastSeen time.Time
}

// Sessions keeps one gallery store per browser session
type Sessions struct {
	factory Factory
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	items map[string]*sessionEntry
}

func NewSessions(factory Factory, ttl time.Duration) *Sessions {
	return &Sessions{
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*sessionEntry),
	}
}

// Get returns the store of session id. Unknown or empty ids get a new session
// under a fresh id; its gallery is loaded once before returning.
func (s *Sessions) Get(ctx context.Context, id string) (*GalleryService, string) {
	s.mu.Lock()
	if e, ok := s.items[id]; ok && id != "" {
		e.lastSeen = s.now()
		s.mu.Unlock()
		return e.svc, id
	}

	id = uuid.NewString()
	svc := s.factory(id)
	s.items[id] = &sessionEntry{svc: svc, lastSeen: s.now()}
	s.mu.Unlock()

	logger := mwlogger.LoggerFromContext(ctx)
	logger.Debug().Str("session", id).Msg("New gallery session")

	// ошибка уже отражена в статусе галереи
	_, _ = svc.Load(ctx)
	return svc, id
}

// EvictIdle drops sessions unused for longer than ttl and returns how many were dropped
func (s *Sessions) EvictIdle(ctx context.Context) int {
	if s.ttl <= 0 {
		return 0
	}

	deadline := s.now().Add(-s.ttl)
	var stale []*GalleryService

	s.mu.Lock()
	for id, e := range s.items {
		if e.lastSeen.Before(deadline) {
			stale = append(stale, e.svc)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, svc := range stale {
		svc.Close(ctx)
	}
	return len(stale)
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// CloseAll drops every session, used on shutdown
func (s *Sessions) CloseAll(ctx context.Context) {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*sessionEntry)
	s.mu.Unlock()

	for _, e := range items {
		e.svc.Close(ctx)
	}
}
