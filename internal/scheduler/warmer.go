package scheduler

import (
	"context"
	"fmt"
	"time"

	"FinDash/pkg/cache"
	applogger "FinDash/pkg/logger"

	"github.com/robfig/cron/v3"
)

const DefaultLockKey = "lock:warm"

// Warmable refreshes cached data ahead of requests.
type Warmable interface {
	Warm(ctx context.Context) error
}

// Warmer runs a Warmable on a cron schedule. A cache lock keeps a single
// instance warming when several share one Redis.
type Warmer struct {
	cron    *cron.Cron
	target  Warmable
	locker  cache.Service
	lockKey string
	lockTTL time.Duration
	timeout time.Duration
	baseCtx context.Context
	cancel  context.CancelFunc
	l       *applogger.Logger
}

// Option configures Warmer.
type Option func(*Warmer)

// WithLockTTL bounds how long a crashed instance can hold the lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(w *Warmer) {
		if ttl > 0 {
			w.lockTTL = ttl
		}
	}
}

func WithLockKey(key string) Option {
	return func(w *Warmer) { w.lockKey = key }
}

// WithRunTimeout limits a single warm run.
func WithRunTimeout(d time.Duration) Option {
	return func(w *Warmer) {
		if d > 0 {
			w.timeout = d
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(w *Warmer) { w.l = l }
}

// New creates a Warmer; locker may be nil to run without a lock.
func New(target Warmable, locker cache.Service, opts ...Option) *Warmer {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Warmer{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		target:  target,
		locker:  locker,
		lockKey: DefaultLockKey,
		lockTTL: 30 * time.Second,
		timeout: 25 * time.Second,
		baseCtx: ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Schedule registers the warm job under a cron spec such as "@every 45s".
func (w *Warmer) Schedule(spec string) error {
	if _, err := w.cron.AddFunc(spec, func() { _, _ = w.RunOnce(w.baseCtx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	return nil
}

// AddFunc registers a housekeeping job. It runs outside the warm lock.
func (w *Warmer) AddFunc(spec string, fn func(ctx context.Context)) error {
	if _, err := w.cron.AddFunc(spec, func() { fn(w.baseCtx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	return nil
}

func (w *Warmer) Start() {
	if w.l != nil {
		w.l.Info("warmer started", applogger.Int("jobs", len(w.cron.Entries())))
	}
	w.cron.Start()
}

// Stop cancels the running job and waits for it until ctx is done.
func (w *Warmer) Stop(ctx context.Context) {
	w.cancel()
	select {
	case <-w.cron.Stop().Done():
	case <-ctx.Done():
	}
	if w.l != nil {
		w.l.Info("warmer stopped")
	}
}

// RunOnce warms unless another holder owns the lock. ran reports whether the
// target was invoked.
func (w *Warmer) RunOnce(ctx context.Context) (ran bool, err error) {
	if w.locker != nil {
		ok, err := w.locker.TryLock(ctx, w.lockKey, w.lockTTL)
		if err != nil {
			w.logError("warmer.lock error", err)
			return false, fmt.Errorf("acquire warm lock: %w", err)
		}
		if !ok {
			return false, nil
		}
		defer func() {
			if err := w.locker.Unlock(context.Background(), w.lockKey); err != nil {
				w.logError("warmer.unlock error", err)
			}
		}()
	}

	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	err = w.target.Warm(runCtx)
	if err != nil {
		w.logError("warmer.run error", err)
	} else if w.l != nil {
		w.l.Debug("warmer.run ok", applogger.Duration("took", time.Since(start)))
	}
	return true, err
}

func (w *Warmer) logError(msg string, err error) {
	if w.l != nil {
		w.l.Warn(msg, applogger.Error(err))
	}
}
