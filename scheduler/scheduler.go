package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	"github.com/gammelalf/dehashed/client"
	"github.com/gammelalf/dehashed/internal/validate"
)

// Scheduler owns the single loop that drains the submission queue and
// talks to the [Executor]. The rate-limit bookkeeping lives in the
// loop's limiter and is never touched from outside it, which is what
// makes "at most one in-flight dispatch" structural rather than locked.
type Scheduler struct {
	exec    Executor
	cfg     Config
	logger  *slog.Logger
	tracer  trace.Tracer
	limiter *rate.Limiter

	queue    chan scheduledRequest
	quit     chan struct{}
	finished chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	down     bool
	stopOnce sync.Once
}

// Start validates cfg and spawns the scheduler loop. Run exactly one
// scheduler per account; any number of goroutines may submit to it.
func Start(exec Executor, cfg Config, optFns ...Option) (*Scheduler, error) {
	if exec == nil {
		return nil, errors.New("executor must not be nil")
	}
	if err := validate.Check(cfg); err != nil {
		return nil, fmt.Errorf("validating scheduler config: %w", err)
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying scheduler option: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		exec:     exec,
		cfg:      cfg,
		logger:   slog.Default(),
		tracer:   noop.NewTracerProvider().Tracer(""),
		limiter:  rate.NewLimiter(rate.Every(cfg.MinRequestInterval), 1),
		queue:    make(chan scheduledRequest, cfg.QueueCapacity),
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	if opts.logger != nil {
		s.logger = opts.logger
	}
	if opts.tracer != nil {
		s.tracer = opts.tracer
	}

	go s.loop()

	return s, nil
}

// Submit enqueues a query and returns the [Receipt] its result will be
// delivered to. It blocks while the queue is full, until ctx ends, and
// fails with [ErrSchedulerUnavailable] once [Scheduler.Shutdown] has
// been called. Requests are served in submission order.
func (s *Scheduler) Submit(ctx context.Context, query client.Query) (*Receipt, error) {
	// Holding the read lock across the send pairs with Shutdown's write
	// lock: once down is set, no submission can be in flight anymore,
	// so everything in the queue at that point gets drained by the loop.
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.down {
		return nil, ErrSchedulerUnavailable
	}

	id := uuid.New()
	req := scheduledRequest{
		id:      id,
		query:   query,
		receipt: newReceipt(id),
	}

	select {
	case s.queue <- req:
		s.logger.Debug("request queued", "request_id", req.id)
		return req.receipt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops the scheduler. Requests already queued are still
// served, then the loop exits. Shutdown waits for that to happen; if
// ctx ends first the remaining drain is aborted and leftover receipts
// resolve with [ErrRequestAbandoned]. Submissions after Shutdown fail
// with [ErrSchedulerUnavailable].
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.down = true
		s.mu.Unlock()
		close(s.quit)
	})

	select {
	case <-s.finished:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-s.finished
		return ctx.Err()
	}
}

// loop is the single consumer of the queue.
func (s *Scheduler) loop() {
	defer close(s.finished)

	for {
		select {
		case req := <-s.queue:
			s.dispatch(req)
		case <-s.quit:
			// Serve whatever made it into the queue before shutdown.
			for {
				select {
				case req := <-s.queue:
					s.dispatch(req)
				default:
					s.logger.Info("scheduler loop exiting")
					return
				}
			}
		}
	}
}

// dispatch runs a single request to completion, retrying rate-limited
// attempts in place so the request keeps its priority over later
// submissions. Every attempt consumes a limiter token, so failed
// requests count against the rate budget just like the provider's
// accounting does.
func (s *Scheduler) dispatch(req scheduledRequest) {
	ctx, span := s.tracer.Start(s.ctx, "scheduler.dispatch",
		trace.WithAttributes(attribute.String("request_id", req.id.String())))
	defer span.End()

	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			req.receipt.deliver(nil, fmt.Errorf("%w: %w", ErrRequestAbandoned, err))
			return
		}

		res, err := s.exec.Search(ctx, req.query)

		switch {
		case err == nil:
			span.SetAttributes(attribute.Int("attempts", attempt+1))
			req.receipt.deliver(res, nil)
			return

		case errors.Is(err, client.ErrRateLimited) && attempt < s.cfg.MaxRetries:
			backoff := s.cfg.MinRequestInterval << attempt
			s.logger.Warn("search got rate limited, backing off",
				"request_id", req.id, "attempt", attempt+1, "backoff", backoff)
			span.AddEvent("rate limited")

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				req.receipt.deliver(nil, fmt.Errorf("%w: %w", ErrRequestAbandoned, ctx.Err()))
				return
			}

		case errors.Is(err, client.ErrRateLimited):
			s.logger.Error("retry budget exhausted",
				"request_id", req.id, "attempts", attempt+1)
			req.receipt.deliver(nil, err)
			return

		default:
			req.receipt.deliver(nil, err)
			return
		}
	}
}
