package imagehttp

import (
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterMaxClients = 4096
)

// clientLimiter ограничивает частоту запросов с одного IP (token bucket на клиента).
type clientLimiter struct {
	mu         sync.Mutex
	limit      rate.Limit
	burst      int
	clients    map[string]*clientEntry
	maxClients int
	lastSweep  time.Time
	now        func() time.Time
}

type clientEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = int(math.Max(1, math.Ceil(perSecond)))
	}

	return &clientLimiter{
		limit:      rate.Limit(perSecond),
		burst:      burst,
		clients:    make(map[string]*clientEntry),
		maxClients: limiterMaxClients,
		now:        time.Now,
	}
}

func (l *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *clientLimiter) allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= l.maxClients {
			l.makeRoom(now)
		}
		e = &clientEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = e
	}
	e.seen = now

	return e.lim.AllowN(now, 1)
}

// makeRoom освобождает место под нового клиента. Полный проход по таблице
// не чаще раза в limiterIdleTTL; если он ничего не дал, вытесняется самый
// давний клиент. Вызывается под mu.
func (l *clientLimiter) makeRoom(now time.Time) {
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		l.lastSweep = now
		for k, e := range l.clients {
			if now.Sub(e.seen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
	}
	if len(l.clients) < l.maxClients {
		return
	}

	var oldestKey string
	var oldest time.Time
	for k, e := range l.clients {
		if oldestKey == "" || e.seen.Before(oldest) {
			oldestKey, oldest = k, e.seen
		}
	}
	delete(l.clients, oldestKey)
}

// clientKey — IP без порта. X-Forwarded-For не учитываем: его подделывает клиент.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
