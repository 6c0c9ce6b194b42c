package event

import (
	"sync"

	"github.com/returnhub/backend/internal/domain/shared"
)

// HandlerRegistry tracks which handlers receive which event types.
// Handlers registered without a type are wildcards and receive every
// event.
type HandlerRegistry struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
	all    []shared.EventHandler
}

// NewHandlerRegistry creates a new handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{byType: make(map[string][]shared.EventHandler)}
}

// Register adds a handler for the given event types, or as a wildcard
// when no types are given.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.all = append(r.all, handler)
		return
	}
	for _, t := range eventTypes {
		r.byType[t] = append(r.byType[t], handler)
	}
}

// Unregister removes a handler from all event types
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.all = without(r.all, handler)
	for t, handlers := range r.byType {
		if kept := without(handlers, handler); len(kept) > 0 {
			r.byType[t] = kept
		} else {
			delete(r.byType, t)
		}
	}
}

// GetHandlers returns the handlers for an event type, wildcards last.
// Handlers run in registration order within each group.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(r.all))
	out = append(out, typed...)
	return append(out, r.all...)
}

// GetAllHandlers returns every registered handler exactly once
func (r *HandlerRegistry) GetAllHandlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[shared.EventHandler]struct{})
	out := make([]shared.EventHandler, 0, len(r.all))
	add := func(h shared.EventHandler) {
		if _, ok := seen[h]; !ok {
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}

	for _, h := range r.all {
		add(h)
	}
	for _, handlers := range r.byType {
		for _, h := range handlers {
			add(h)
		}
	}
	return out
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	kept := handlers[:0:0]
	for _, h := range handlers {
		if h != target {
			kept = append(kept, h)
		}
	}
	return kept
}
