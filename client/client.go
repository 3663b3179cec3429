package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/gammelalf/dehashed/client/throttle"
	"github.com/gammelalf/dehashed/internal/validate"
)

// defaultBaseURL is the search endpoint of the API.
const defaultBaseURL = "https://api.dehashed.com/search"

// Client talks to the search API. Build one with [Build], it is safe
// for concurrent use.
type Client struct {
	c        *http.Client
	logger   *slog.Logger
	tracer   trace.Tracer
	email    string
	apiKey   string
	baseURL  string
	pageSize int
}

// credentials is validated on [Build].
type credentials struct {
	Email  string `json:"email" validate:"required,email"`
	APIKey string `json:"api_key" validate:"required"`
}

// Build instantiates a new [Client] with the provided credentials and
// options. email is the address the account authenticates with, apiKey
// is found on the account's profile page.
func Build(email, apiKey string, optFns ...Option) (*Client, error) {
	if err := validate.Check(credentials{Email: email, APIKey: apiKey}); err != nil {
		return nil, fmt.Errorf("validating credentials: %w", err)
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		c:        &http.Client{Timeout: 10 * time.Second},
		logger:   slog.Default(),
		tracer:   noop.NewTracerProvider().Tracer(""),
		email:    email,
		apiKey:   strings.ToLower(apiKey),
		baseURL:  defaultBaseURL,
		pageSize: defaultPageSize,
	}

	if opts.client != nil {
		client.c = opts.client
	}
	if opts.logger != nil {
		client.logger = opts.logger
	}
	if opts.tracer != nil {
		client.tracer = opts.tracer
	}
	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}
	if opts.baseURL != "" {
		client.baseURL = opts.baseURL
	}
	if opts.pageSize != 0 {
		client.pageSize = opts.pageSize
	}

	// The API signals a bad query with a redirect status. Don't chase it.
	client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Search runs the query against the API, fetching every result page.
//
// The API bans accounts that send more than 5 requests per second, so
// calling Search concurrently is a bad idea. Use the scheduler package
// to serialize access instead.
func (c *Client) Search(ctx context.Context, query Query) (*SearchResult, error) {
	q := query.String()

	ctx, span := c.tracer.Start(ctx, "dehashed.search")
	defer span.End()

	c.logger.Debug("running search", "query", q)

	result := &SearchResult{}
	for page := 1; ; page++ {
		res, err := c.rawRequest(ctx, c.pageSize, page, q)
		if err != nil {
			return nil, err
		}

		if !res.Success {
			c.logger.Error("success field in response is set to false", "page", page)
			return nil, ErrUnknown
		}

		for _, e := range res.Entries {
			parsed, err := e.toSearchEntry()
			if err != nil {
				return nil, err
			}
			result.Entries = append(result.Entries, parsed)
		}
		result.Balance = res.Balance

		if res.Total < page*c.pageSize {
			break
		}
	}

	span.SetAttributes(attribute.Int("entries", len(result.Entries)))

	return result, nil
}

// rawRequest fetches a single result page and maps the API's status
// codes onto the package's error taxonomy.
func (c *Client) rawRequest(ctx context.Context, size, page int, query string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	params := url.Values{}
	params.Set("size", strconv.Itoa(size))
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = params.Encode()

	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.email, c.apiKey)

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			c.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusFound:
		return nil, ErrInvalidQuery
	case http.StatusBadRequest:
		return nil, ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		return nil, &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			Err:        ErrUnknown,
		}
	}

	var res response
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %w", ErrMalformedResponse, err)
	}

	return &res, nil
}
