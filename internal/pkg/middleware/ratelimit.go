package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperror "seaconnector/internal/errors"
	"seaconnector/internal/pkg/cache"
	"seaconnector/internal/pkg/logger"
	"seaconnector/internal/pkg/metrics"
)

// Limiter decide se mais uma requisição identificada por key cabe na janela.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter conta requisições em janela fixa com INCR + EXPIRE, de modo que
// várias instâncias compartilham o mesmo limite.
type RedisLimiter struct {
	client cache.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client cache.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Incr(ctx, "rate-limit:"+key, l.window)
	if err != nil {
		return false, err
	}
	return count <= int64(l.limit), nil
}

// ipLimiter guarda o token bucket de um IP e o último acesso, usado na limpeza.
type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LocalLimiter mantém um token bucket por chave em memória. Usado quando não
// há Redis configurado; o limite passa a valer por instância.
type LocalLimiter struct {
	rate  rate.Limit
	burst int
	ttl   time.Duration

	mu       sync.Mutex
	limiters map[string]*ipLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLocalLimiter cria o limitador com `limit` requisições por `window` e
// inicia a goroutine que descarta entradas ociosas por mais de duas janelas.
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	l := &LocalLimiter{
		rate:     rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
		ttl:      2 * window,
		limiters: make(map[string]*ipLimiter),
		stopCh:   make(chan struct{}),
	}
	go l.cleanupLoop(window)
	return l
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = time.Now()
	l.mu.Unlock()

	return entry.limiter.Allow(), nil
}

// Len devolve quantas chaves estão sendo acompanhadas.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Stop encerra a goroutine de limpeza.
func (l *LocalLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *LocalLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Now())
		case <-l.stopCh:
			return
		}
	}
}

func (l *LocalLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entry := range l.limiters {
		if now.Sub(entry.lastAccess) > l.ttl {
			delete(l.limiters, key)
		}
	}
}

// NewRateLimitMiddleware aplica o limiter por IP do cliente. Falha do
// limiter (Redis fora do ar) deixa a requisição passar e é registrada em log.
func NewRateLimitMiddleware(limiter Limiter, window time.Duration, log logger.Logger, rec metrics.Recorder) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(math.Ceil(window.Seconds())))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				log.Warn("Rate limiter indisponível, requisição liberada", map[string]interface{}{
					"ip":    ip,
					"error": err.Error(),
				})
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				rec.RecordRateLimited(r.URL.Path)
				log.Warn("Limite de requisições excedido", map[string]interface{}{
					"ip":   ip,
					"path": r.URL.Path,
				})
				w.Header().Set("Retry-After", retryAfter)
				writeError(w, apperror.NewRateLimitError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP usa o RemoteAddr, já reescrito pelo middleware RealIP do chi quando
// houver X-Forwarded-For ou X-Real-IP.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
