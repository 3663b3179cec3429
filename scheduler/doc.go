// Package scheduler serializes searches against the rate-limited API.
//
// The API bans accounts that exceed its request quota, so all outbound
// searches funnel through a single loop that spaces dispatches by a
// configurable minimum interval. Any number of goroutines may submit
// queries; each submission returns a [Receipt] the caller waits on for
// its own result.
//
//	s, err := scheduler.Start(apiClient, scheduler.DefaultConfig())
//	r, err := s.Submit(ctx, client.Domain(client.Simple("example.com")))
//	res, err := r.Result()
//
// Rate-limited dispatches are retried with increasing backoff before the
// error is surfaced, so callers don't notice transient throttling. All
// other errors are delivered verbatim and immediately.
//
// There is no built-in per-request timeout. A caller wanting one races
// its own deadline against [Receipt.Done] (or uses [Receipt.Wait]) and
// simply walks away; the scheduler's later delivery to the abandoned
// receipt is a no-op.
package scheduler
