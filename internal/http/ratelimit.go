package http

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// DefaultExportsPerMinute bounds workbook renders per client.
const DefaultExportsPerMinute = 12

const rateWindow = time.Minute

// rateLimiter counts requests per client in fixed one-minute windows.
// Stale clients are pruned lazily on Allow, so there is no goroutine to stop.
type rateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientWindow
	limit     int
	now       func() time.Time
	lastPrune time.Time
}

type clientWindow struct {
	start    time.Time
	requests int
}

func newRateLimiter(limit int, now func() time.Time) *rateLimiter {
	if limit <= 0 {
		limit = DefaultExportsPerMinute
	}
	return &rateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		now:     now,
	}
}

// Allow reports whether client may make another request, and if not, how
// long until its window resets.
func (rl *rateLimiter) Allow(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > 10*rateWindow {
		for ip, c := range rl.clients {
			if now.Sub(c.start) > rateWindow {
				delete(rl.clients, ip)
			}
		}
		rl.lastPrune = now
	}

	c, ok := rl.clients[client]
	if !ok || now.Sub(c.start) >= rateWindow {
		rl.clients[client] = &clientWindow{start: now, requests: 1}
		return true, 0
	}
	if c.requests >= rl.limit {
		return false, c.start.Add(rateWindow).Sub(now)
	}
	c.requests++
	return true, 0
}

func (rl *rateLimiter) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, retry := rl.Allow(clientIP(r))
		if !ok {
			secs := int(retry.Round(time.Second) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}
		next(w, r)
	}
}

// clientIP is the peer address. Forwarding headers are ignored: the feed
// is not meant to sit behind a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
