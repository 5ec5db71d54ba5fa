// Package sender runs outbound Bot API calls on a small worker pool so
// handlers never block on Telegram.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/subbot/core/logger"
	"github.com/m3rciful/subbot/core/telegram/netutil"
)

var (
	// ErrQueueClosed is returned by Enqueue after Close.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull is returned when the queue has no room for the job.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

// Options tunes a Dispatcher. Zero values pick the defaults.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds one job including its retries.
	MaxDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	o.MaxRetries = max(o.MaxRetries, 0)
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 2 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 12 * time.Second
	}
	return o
}

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

func (j job) attrs(extra ...slog.Attr) []slog.Attr {
	attrs := []slog.Attr{slog.String("action", j.action)}
	if j.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", j.endpoint))
	}
	return append(attrs, extra...)
}

// Dispatcher executes queued calls, retrying transient failures.
type Dispatcher struct {
	opts Options
	jobs chan job

	// mu orders Enqueue before Close so jobs never land on a closed channel.
	mu     sync.RWMutex
	closed bool
	once   sync.Once
	wg     sync.WaitGroup

	sent atomic.Uint64
	errs atomic.Uint64
}

// NewDispatcher starts the workers.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{opts: opts, jobs: make(chan job, opts.QueueSize)}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go func() {
			defer d.wg.Done()
			for j := range d.jobs {
				d.process(j)
			}
		}()
	}
	return d
}

// Enqueue queues run without blocking. run may be called more than once.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.jobs <- job{ctx: ctx, action: action, endpoint: endpoint, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// SentCount is the number of jobs that eventually succeeded.
func (d *Dispatcher) SentCount() uint64 { return d.sent.Load() }

// ErrorCount is the number of jobs that gave up.
func (d *Dispatcher) ErrorCount() uint64 { return d.errs.Load() }

// Close rejects new jobs, drains the queue and waits for the workers.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.jobs)
		d.mu.Unlock()
		d.wg.Wait()
	})
}

func (d *Dispatcher) process(j job) {
	ctx := j.ctx
	start := time.Now()
	logger.Debug(ctx, "tg.sender", "send.start", j.attrs()...)

	attempts, err := d.attempt(ctx, j)
	elapsed := slog.Duration("elapsed", logger.RoundMS(time.Since(start)))
	if err == nil {
		d.sent.Add(1)
		if attempts > 1 {
			logger.Info(ctx, "tg.sender", "send.retry.success", j.attrs(slog.Int("attempts", attempts), elapsed)...)
			return
		}
		logger.Debug(ctx, "tg.sender", "send.success", j.attrs(elapsed)...)
		return
	}

	d.errs.Add(1)
	logger.Error(ctx, "tg.sender", "send.fail", j.attrs(
		slog.String("status", "fail"),
		slog.String("err", netutil.Redact(err)),
		slog.String("cause", netutil.Kind(err)),
		slog.Int("attempts", attempts),
		elapsed,
	)...)
}

// attempt runs j until it succeeds, fails permanently or runs out of tries
// or time. It returns the number of calls made and the last error.
func (d *Dispatcher) attempt(parent context.Context, j job) (int, error) {
	ctx, cancel := context.WithTimeout(parent, d.opts.MaxDuration)
	defer cancel()

	limit := d.opts.MaxRetries + 1
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return n - 1, err
		}
		err := j.run()
		if err == nil {
			return n, nil
		}
		retry, wait := netutil.Backoff(err)
		if !retry || n == limit {
			return n, err
		}

		delay := max(d.opts.RetryBackoff*time.Duration(n), wait)
		logger.Debug(ctx, "tg.sender", "send.retry.backoff", j.attrs(
			slog.String("status", "retry"),
			slog.Int("attempts", n),
			slog.Duration("backoff", delay),
		)...)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return n, ctx.Err()
		case <-timer.C:
		}
	}
}
