package scheduler_test

import (
	"context"
	"fmt"

	"github.com/gammelalf/dehashed/client"
	"github.com/gammelalf/dehashed/scheduler"
)

func ExampleStart() {
	// In real code the executor is a *client.Client.
	exec := scheduler.ExecutorFunc(func(ctx context.Context, q client.Query) (*client.SearchResult, error) {
		return &client.SearchResult{Balance: 100}, nil
	})

	s, err := scheduler.Start(exec, scheduler.DefaultConfig())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer s.Shutdown(context.Background())

	r, err := s.Submit(context.Background(), client.Domain(client.Simple("example.com")))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := r.Result()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("balance:", res.Balance)
	// Output: balance: 100
}

func ExampleReceipt_Wait() {
	exec := scheduler.ExecutorFunc(func(ctx context.Context, q client.Query) (*client.SearchResult, error) {
		return &client.SearchResult{}, nil
	})

	s, err := scheduler.Start(exec, scheduler.DefaultConfig())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer s.Shutdown(context.Background())

	r, err := s.Submit(context.Background(), client.Email(client.Exact("test@example.com")))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// Wait gives up when the context ends; the request itself keeps
	// its place in the queue.
	if _, err := r.Wait(context.Background()); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("delivered")
	// Output: delivered
}
