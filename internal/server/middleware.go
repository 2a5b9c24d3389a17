package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RateLimiter caps inbound frames per connection over a sliding window.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	requests    map[uuid.UUID][]time.Time
	mu          sync.Mutex
}

func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[uuid.UUID][]time.Time),
	}
}

// Allow records one frame from the connection and reports whether it is
// within the limit.
func (r *RateLimiter) Allow(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	recent := make([]time.Time, 0, len(r.requests[id]))
	for _, ts := range r.requests[id] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= r.maxRequests {
		r.requests[id] = recent
		return false
	}

	r.requests[id] = append(recent, now)
	return true
}

// RemoveConnection drops rate-limit state for a closed connection.
func (r *RateLimiter) RemoveConnection(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, id)
}

// ConnectionHealth tracks when each connection last sent a frame, so the
// sweep task can close connections that went quiet.
type ConnectionHealth struct {
	lastActivity map[uuid.UUID]time.Time
	mu           sync.RWMutex
}

func NewConnectionHealth() *ConnectionHealth {
	return &ConnectionHealth{
		lastActivity: make(map[uuid.UUID]time.Time),
	}
}

func (h *ConnectionHealth) UpdateActivity(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastActivity[id] = time.Now()
}

// InactiveConnections returns every connection silent for longer than
// timeout.
func (h *ConnectionHealth) InactiveConnections(timeout time.Duration) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var inactive []uuid.UUID
	now := time.Now()
	for id, last := range h.lastActivity {
		if now.Sub(last) > timeout {
			inactive = append(inactive, id)
		}
	}
	return inactive
}

func (h *ConnectionHealth) RemoveConnection(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.lastActivity, id)
}
