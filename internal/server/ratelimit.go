package server

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// visitorLimiter keeps one token bucket per client IP.
type visitorLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newVisitorLimiter(limit rate.Limit, burst int) *visitorLimiter {
	return &visitorLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (v *visitorLimiter) get(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	limiter, exists := v.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(v.limit, v.burst)
		v.visitors[ip] = limiter
	}
	return limiter
}

func (v *visitorLimiter) reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visitors = make(map[string]*rate.Limiter)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (v *visitorLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !v.get(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "Trop de requêtes, réessayez dans un instant")
			return
		}
		next.ServeHTTP(w, r)
	})
}
