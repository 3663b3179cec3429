// Package dehashed exposes the client builder and scheduler for the
// dehashed.com search API.
//
// This is not an official SDK.
//
// For one-off searches build a client and call Search directly:
//
//	c, err := dehashed.NewClient("account@example.com", apiKey)
//	res, err := c.Search(ctx, client.Domain(client.Simple("example.com")))
//
// The API bans accounts that exceed its request quota, so concurrent
// callers should funnel their searches through a scheduler instead:
//
//	s, err := dehashed.NewScheduler(c, scheduler.DefaultConfig())
//	receipt, err := s.Submit(ctx, client.Email(client.Exact("test@example.com")))
//	res, err := receipt.Result()
package dehashed

import (
	"github.com/gammelalf/dehashed/client"
	"github.com/gammelalf/dehashed/scheduler"
)

// NewClient instantiates a new *client.Client with the given credentials
// and options.
func NewClient(email, apiKey string, opts ...client.Option) (*client.Client, error) {
	return client.Build(email, apiKey, opts...)
}

// NewScheduler starts a scheduler that serializes searches through the
// given executor, usually a *client.Client. Run exactly one scheduler
// per account.
func NewScheduler(exec scheduler.Executor, cfg scheduler.Config, opts ...scheduler.Option) (*scheduler.Scheduler, error) {
	return scheduler.Start(exec, cfg, opts...)
}
