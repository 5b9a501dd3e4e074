package service

import (
	"strings"
	"sync"
	"time"
)

// IntakeRateLimiter decide si un cliente puede enviar otra respuesta.
//
// Ambas implementaciones aplican la misma política: ventana fija de `window`
// que arranca con el primer envío de la clave, como máximo `max` envíos por
// ventana, y las claves vacías comparten el balde unknownClientKey.
type IntakeRateLimiter interface {
	Allow(clientIP string) bool
}

const unknownClientKey = "unknown"

// intakeKey normaliza la IP del cliente. No se cambia mayúsculas: IPv6 llega
// ya canonizada desde gin.
func intakeKey(clientIP string) string {
	key := strings.TrimSpace(clientIP)
	if key == "" {
		return unknownClientKey
	}
	return key
}

func normalizeLimits(window time.Duration, max int) (time.Duration, int) {
	if window < time.Second {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return window, max
}

type fixedWindow struct {
	start time.Time
	count int
}

type memoryRateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	windows   map[string]fixedWindow
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryRateLimiter crea el limitador de un solo proceso.
func NewMemoryRateLimiter(window time.Duration, max int) IntakeRateLimiter {
	window, max = normalizeLimits(window, max)
	return &memoryRateLimiter{
		window:  window,
		max:     max,
		windows: make(map[string]fixedWindow),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryRateLimiter) Allow(clientIP string) bool {
	key := intakeKey(clientIP)

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || !now.Before(w.start.Add(l.window)) {
		w = fixedWindow{start: now}
	}
	w.count++
	l.windows[key] = w
	return w.count <= l.max
}

// sweep descarta ventanas vencidas, a lo sumo una vez por ventana.
func (l *memoryRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, w := range l.windows {
		if !now.Before(w.start.Add(l.window)) {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}

func (l *memoryRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
