package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gammelalf/dehashed/client"
)

var (
	// ErrSchedulerUnavailable is returned by [Scheduler.Submit] once
	// [Scheduler.Shutdown] has been called.
	ErrSchedulerUnavailable = errors.New("scheduler is shut down")
	// ErrRequestAbandoned resolves receipts the scheduler had to drop
	// without producing a result, e.g. when a shutdown is aborted.
	ErrRequestAbandoned = errors.New("scheduler dropped the request")
)

// Executor runs a single search against the backing API. *client.Client
// satisfies it. It must report rate limiting as client.ErrRateLimited
// for the retry logic to engage.
type Executor interface {
	Search(ctx context.Context, query client.Query) (*client.SearchResult, error)
}

// ExecutorFunc adapts a plain function to the [Executor] interface.
type ExecutorFunc func(ctx context.Context, query client.Query) (*client.SearchResult, error)

func (f ExecutorFunc) Search(ctx context.Context, query client.Query) (*client.SearchResult, error) {
	return f(ctx, query)
}

// Config tunes the scheduler.
type Config struct {
	// MinRequestInterval is the spacing enforced between consecutive
	// dispatches, including retries.
	MinRequestInterval time.Duration `json:"min_request_interval" validate:"required,gt=0"`

	// MaxRetries is the retry budget for rate-limited dispatches
	// before the error is surfaced to the caller.
	MaxRetries int `json:"max_retries" validate:"gte=0"`

	// QueueCapacity bounds the submission queue. Submit blocks while
	// the queue is full. Zero means submissions hand off directly to
	// the loop.
	QueueCapacity int `json:"queue_capacity" validate:"gte=0"`
}

// DefaultConfig spaces dispatches to stay well below the API's
// documented 5 req/s ban threshold.
func DefaultConfig() Config {
	return Config{
		MinRequestInterval: 200 * time.Millisecond,
		MaxRetries:         3,
		QueueCapacity:      5,
	}
}

// scheduledRequest pairs a query with the receipt its result is
// delivered to. It is consumed exactly once by the loop.
type scheduledRequest struct {
	id      uuid.UUID
	query   client.Query
	receipt *Receipt
}
