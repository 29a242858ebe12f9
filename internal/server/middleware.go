package server

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"golang.org/x/time/rate"
)

func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				s.serverErrorResponse(w, r, fmt.Errorf("%v", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
		)
	})
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimit applies a token bucket per client IP. Clients idle for three minutes are
// forgotten.
func (s *Server) rateLimit() func(http.Handler) http.Handler {
	if s.opts.RateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	burst := s.opts.RateBurst
	if burst < 1 {
		burst = 1
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			mu.Lock()
			now := time.Now()
			for k, c := range clients {
				if now.Sub(c.lastSeen) > 3*time.Minute {
					delete(clients, k)
				}
			}
			c, ok := clients[ip]
			if !ok {
				c = &client{limiter: rate.NewLimiter(rate.Limit(s.opts.RateLimit), burst)}
				clients[ip] = c
			}
			c.lastSeen = now
			allowed := c.limiter.Allow()
			mu.Unlock()

			if !allowed {
				s.rateLimitExceededResponse(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
