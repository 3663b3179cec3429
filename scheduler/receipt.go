package scheduler

import (
	"context"

	"github.com/google/uuid"

	"github.com/gammelalf/dehashed/client"
)

// Receipt tracks a single submitted search until its result arrives.
// Exactly one result is ever delivered to it. Abandoning a Receipt is
// safe; the scheduler's delivery then goes unread and the Receipt is
// garbage collected.
type Receipt struct {
	id   uuid.UUID
	done chan struct{}
	res  *client.SearchResult
	err  error
}

func newReceipt(id uuid.UUID) *Receipt {
	return &Receipt{id: id, done: make(chan struct{})}
}

// ID returns the correlation id assigned at submission. The scheduler's
// log lines for this request carry the same id.
func (r *Receipt) ID() string { return r.id.String() }

// Done returns a channel that is closed once the result has been
// delivered. Callers racing their own timeout select on Done and walk
// away when the timeout wins.
func (r *Receipt) Done() <-chan struct{} { return r.done }

// Result blocks until delivery and returns the outcome.
func (r *Receipt) Result() (*client.SearchResult, error) {
	<-r.done
	return r.res, r.err
}

// Wait is like [Receipt.Result] but gives up when ctx ends. The request
// itself keeps its place in the queue; only the caller stops waiting.
func (r *Receipt) Wait(ctx context.Context) (*client.SearchResult, error) {
	select {
	case <-r.done:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// deliver resolves the receipt. Only the scheduler loop calls it, at
// most once per receipt. Closing done never blocks, readers or not.
func (r *Receipt) deliver(res *client.SearchResult, err error) {
	r.res = res
	r.err = err
	close(r.done)
}
