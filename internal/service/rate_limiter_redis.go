package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// El primer INCR de la clave abre la ventana; el EXPIRE la cierra.
const redisIntakeAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisRateLimiter struct {
	client  redisEvaler
	window  time.Duration
	max     int
	prefix  string
	timeout time.Duration
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisRateLimiter comparte el conteo entre instancias del API.
func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int) IntakeRateLimiter {
	if client == nil {
		return nil
	}
	return newRedisRateLimiter(client, window, max)
}

func newRedisRateLimiter(client redisEvaler, window time.Duration, max int) *redisRateLimiter {
	window, max = normalizeLimits(window, max)
	return &redisRateLimiter{
		client:  client,
		window:  window,
		max:     max,
		prefix:  "intake:rl:",
		timeout: 500 * time.Millisecond,
	}
}

// Allow deja pasar si Redis no responde: el formulario no se cae por el limitador.
func (l *redisRateLimiter) Allow(clientIP string) bool {
	if l == nil || l.client == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	count, err := l.client.Eval(ctx, redisIntakeAllowScript,
		[]string{l.prefix + intakeKey(clientIP)},
		l.window.Milliseconds(),
	).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
