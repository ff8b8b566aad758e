// internal/websocket/handler.go
package websocket

import (
	"context"
	"sync"

	wstypes "worklink-service/internal/domain/websocket"
)

// MessageHandler processes a family of incoming client events.
type MessageHandler interface {
	SupportedEvents() []wstypes.EventType
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
}

// HandlerRegistry maps event types to their handler.
type HandlerRegistry struct {
	handlers map[wstypes.EventType]MessageHandler
	mu       sync.RWMutex
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[wstypes.EventType]MessageHandler),
	}
}

func (r *HandlerRegistry) Register(handler MessageHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range handler.SupportedEvents() {
		r.handlers[event] = handler
	}
}

func (r *HandlerRegistry) Lookup(event wstypes.EventType) (MessageHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[event]
	return handler, ok
}
