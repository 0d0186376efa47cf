package main

import (
	"context"

	"github.com/UnendingLoop/DroneGallery/internal/service"
	"github.com/UnendingLoop/DroneGallery/internal/transport"
)

// sessionProvider adapts the session registry to the handler contract
type sessionProvider struct {
	sessions *service.Sessions
}

func (p sessionProvider) Acquire(ctx context.Context, id string) (transport.Gallery, string) {
	return p.sessions.Get(ctx, id)
}

type SessionJanitor interface {
	EvictIdle(ctx context.Context) int
}
