// Package client implements the API client for the dehashed.com
// search API.
//
// # Building a Client
//
// Use [Build] with the account's credentials and functional options:
//
//	c, err := client.Build("account@example.com", apiKey,
//		client.WithTimeout(10*time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// # Queries
//
// A [Query] pairs a searchable field with a [Match] mode:
//
//	client.Domain(client.Simple("example.com"))
//	client.Email(client.Exact("test@example.com"))
//	client.Username(client.Regex("adm.n"))
//	client.Domain(client.Or{client.Simple("example.com"), client.Exact("example.org")})
//
// # Searching
//
// [Client.Search] fetches every result page and merges them:
//
//	res, err := c.Search(ctx, client.Domain(client.Simple("example.com")))
//
// Failures map onto the package's sentinel errors, e.g. [ErrRateLimited]
// when the account got throttled. The scheduler package builds on this
// to retry rate-limited searches transparently.
package client
