package ratelimiter

import (
	"sync"
	"time"
)

// LimiterInterface は、ログイン試行などの操作の頻度を制限するインターフェースです。
type LimiterInterface interface {
	Allow(key string) bool
}

// Limiterは、キー（クライアントIP等）ごとに固定ウィンドウで試行回数を制限します。
type Limiter struct {
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count     int
	lastReset time.Time
}

// NewLimiterは新しいLimiterのインスタンスを生成します。
func NewLimiter(limit int, interval time.Duration) *Limiter {
	return &Limiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
	}
}

// Allowは指定キーの試行を1回分消費し、上限以内であればtrueを返します。
// ウィンドウを過ぎたカウントはリセットされます。
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.lastReset) >= l.interval {
		l.windows[key] = &window{count: 1, lastReset: now}
		return true
	}

	w.count++
	return w.count <= l.limit
}
