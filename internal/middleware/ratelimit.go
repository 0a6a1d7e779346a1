package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit задаёт допустимую частоту запросов одного клиента.
type RateLimit struct {
	RequestsPerMinute float64
	Burst             int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов по идентификатору клиента.
type RateLimiter struct {
	limit    RateLimit
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
	idleTTL  time.Duration
}

// NewRateLimiter создаёт ограничитель. Неположительная частота отключает ограничение.
func NewRateLimiter(limit RateLimit) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		visitors: make(map[string]*visitor),
		now:      time.Now,
		idleTTL:  10 * time.Minute,
	}
}

// Middleware отвечает 429, если клиент превысил лимит.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit.RequestsPerMinute <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		if !l.limiter(clientID(r)).Allow() {
			w.Header().Set("Retry-After", "60")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) limiter(id string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, key)
		}
	}

	v, ok := l.visitors[id]
	if !ok {
		burst := l.limit.Burst
		if burst <= 0 {
			burst = 1
		}
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(l.limit.RequestsPerMinute/60.0), burst)}
		l.visitors[id] = v
	}
	v.lastSeen = now
	return v.limiter
}

// clientID предпочитает сессию, затем адрес клиента.
func clientID(r *http.Request) string {
	if id, ok := GetSessionIDFromContext(r.Context()); ok {
		return "session:" + id
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if parsed := net.ParseIP(strings.TrimSpace(first)); parsed != nil {
			return parsed.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
