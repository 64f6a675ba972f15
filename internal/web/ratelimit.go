package web

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/JonMunkholm/keydrift/internal/metrics"
)

// limiterExpiry is how long an idle client's bucket is kept.
const limiterExpiry = 10 * time.Minute

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*client

	done     chan struct{}
	stopOnce sync.Once
}

type client struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// newRateLimiter allows perMinute requests per minute per IP with the given
// burst, and starts a cleanup loop that runs until stop is called.
func newRateLimiter(perMinute, burst int) *rateLimiter {
	rl := &rateLimiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		clients: make(map[string]*client),
		done:    make(chan struct{}),
	}
	go rl.cleanup(time.Minute)
	return rl
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *rateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, c := range rl.clients {
				if now.Sub(c.lastAccess) > limiterExpiry {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// allow reports whether ip may make a request now and, if not, how long
// until it may.
func (rl *rateLimiter) allow(ip string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastAccess = now
	rl.mu.Unlock()

	res := c.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Minute
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// middleware rejects requests over the limit with 429 and Retry-After.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		if ok, wait := rl.allow(ip); !ok {
			metrics.RateLimited.Inc()
			secs := int(wait.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
				Error:   "Too many requests",
				Message: "Too many requests",
				Action:  "Please wait a moment before trying again",
				Code:    "RATE001",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
