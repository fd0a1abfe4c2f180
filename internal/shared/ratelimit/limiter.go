package ratelimit

import (
	"sync"
	"time"
)

// Config controls the fixed window.
type Config struct {
	MaxRequests int
	Window      time.Duration
}

// Result describes a single limiter decision.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window request counter keyed by caller identity
// ("user:<id>" or "ip:<addr>"). State is process-local; under multi-instance
// deployment each instance enforces its own window. Instances are created
// per container so tests and deployments get independent state.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	cfg     Config
	now     func() time.Time

	stopSweep chan struct{}
	stopOnce  sync.Once
}

const sweepInterval = 5 * time.Minute

func NewLimiter(cfg Config) *Limiter {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	l := &Limiter{
		entries:   make(map[string]*entry),
		cfg:       cfg,
		now:       time.Now,
		stopSweep: make(chan struct{}),
	}

	go l.sweepLoop()

	return l
}

// Check records one request for identifier and decides whether it is
// allowed. Expiry is evaluated here as well, so correctness never depends
// on the background sweep.
func (l *Limiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(l.cfg.Window)}
		l.entries[identifier] = e
		return Result{Allowed: true, Remaining: l.cfg.MaxRequests - 1, ResetAt: e.resetAt}
	}

	if e.count >= l.cfg.MaxRequests {
		return Result{Allowed: false, Remaining: 0, ResetAt: e.resetAt}
	}

	e.count++
	return Result{Allowed: true, Remaining: l.cfg.MaxRequests - e.count, ResetAt: e.resetAt}
}

// sweepLoop removes expired entries to bound memory growth. Advisory only.
func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stopSweep:
			return
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, id)
		}
	}
}

// Stop terminates the background sweep. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopSweep) })
}

// Len reports the number of tracked identities (expired or not).
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
