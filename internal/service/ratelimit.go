package service

import (
	"sync"
	"time"
)

// RateLimiter — фиксированное окно на пользователя. Состояние живёт в памяти
// процесса и теряется при рестарте: это рекомендательное торможение, а не
// граница безопасности. Всплески на границе окна допускаются: счётчик
// сбрасывается разом, а не скользит. Для многоэкземплярного деплоя нужен
// внешний общий счётчик.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*window
	max    int
	period time.Duration

	now func() time.Time // подменяется в тестах
}

type window struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter создаёт лимитер: не более max запросов за period на email.
func NewRateLimiter(max int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*window),
		max:    max,
		period: period,
		now:    time.Now,
	}
}

// Allow регистрирует запрос и сообщает, допущен ли он в текущем окне.
func (rl *RateLimiter) Allow(email string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.limits[email]
	if !ok {
		w = &window{resetAt: now.Add(rl.period)}
		rl.limits[email] = w
	}
	if now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(rl.period)
	}
	w.count++
	return w.count <= rl.max
}

// RetryAfter возвращает, сколько осталось ждать до сброса окна пользователя.
func (rl *RateLimiter) RetryAfter(email string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.limits[email]
	if !ok {
		return 0
	}
	d := w.resetAt.Sub(rl.now())
	if d < 0 {
		return 0
	}
	return d
}
