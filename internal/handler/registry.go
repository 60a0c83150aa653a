package handler

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps routes to their handlers.
// It is safe for concurrent reads; Register should only be called while building.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Route]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Route]Handler)}
}

// Register adds a handler. Panics on duplicate route to surface misconfiguration early.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[h.Route()]; exists {
		panic(fmt.Sprintf("handler registry: duplicate route %q", h.Route()))
	}
	r.handlers[h.Route()] = h
}

// Get returns the handler for the given route.
func (r *Registry) Get(route Route) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[route]
	if !ok {
		return nil, fmt.Errorf("no handler registered for route %q", route)
	}
	return h, nil
}

// Routes returns all registered routes, sorted.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Route, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Missing returns the routes in Routes that have no handler.
func (r *Registry) Missing() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Route
	for _, route := range Routes {
		if _, ok := r.handlers[route]; !ok {
			out = append(out, route)
		}
	}
	return out
}
