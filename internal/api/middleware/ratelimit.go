package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware enforces a per-user request rate
type RateLimitMiddleware struct {
	perMinute int
	limiters  map[string]*rate.Limiter
	lastSeen  map[string]time.Time
	mu        sync.RWMutex
}

// NewRateLimitMiddleware creates a rate limiter allowing perMinute requests
// per authenticated user
func NewRateLimitMiddleware(perMinute int) *RateLimitMiddleware {
	m := &RateLimitMiddleware{
		perMinute: perMinute,
		limiters:  make(map[string]*rate.Limiter),
		lastSeen:  make(map[string]time.Time),
	}

	go m.cleanupLimiters()

	return m
}

// RateLimit enforces the limit for the user already loaded by Authenticate
func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "user not found in context",
			})
			return
		}

		if !m.getLimiter(user.ID).Allow() {
			respondJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getLimiter gets or creates a rate limiter for a user
func (m *RateLimitMiddleware) getLimiter(userID string) *rate.Limiter {
	m.mu.RLock()
	limiter, exists := m.limiters[userID]
	m.mu.RUnlock()

	if exists {
		m.touch(userID)
		return limiter
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := m.limiters[userID]; exists {
		m.lastSeen[userID] = time.Now()
		return limiter
	}

	perSecond := float64(m.perMinute) / 60.0
	limiter = rate.NewLimiter(rate.Limit(perSecond), m.perMinute)
	m.limiters[userID] = limiter
	m.lastSeen[userID] = time.Now()

	return limiter
}

func (m *RateLimitMiddleware) touch(userID string) {
	m.mu.Lock()
	m.lastSeen[userID] = time.Now()
	m.mu.Unlock()
}

// cleanupLimiters drops limiters for users idle longer than an hour
func (m *RateLimitMiddleware) cleanupLimiters() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		m.mu.Lock()
		for id, seen := range m.lastSeen {
			if seen.Before(cutoff) {
				delete(m.limiters, id)
				delete(m.lastSeen, id)
			}
		}
		m.mu.Unlock()
	}
}
