package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit allows limit requests per window per client IP using a token
// bucket. Idle visitors are evicted after a few windows.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	every := rate.Every(per / time.Duration(limit))
	idle := 3 * per
	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
		lastGC   = time.Now()
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := visitorKey(r)
			now := time.Now()
			mu.Lock()
			if now.Sub(lastGC) > idle {
				for key, v := range visitors {
					if now.Sub(v.lastSeen) > idle {
						delete(visitors, key)
					}
				}
				lastGC = now
			}
			v, ok := visitors[ip]
			if !ok {
				v = &visitor{limiter: rate.NewLimiter(every, limit)}
				visitors[ip] = v
			}
			v.lastSeen = now
			res := v.limiter.ReserveN(now, 1)
			delay := res.DelayFrom(now)
			if delay > 0 {
				res.CancelAt(now)
			}
			mu.Unlock()

			if delay > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// visitorKey keys the limiter on the connection address. Forwarding headers
// count only when the router runs chi's RealIP ahead of this.
func visitorKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
