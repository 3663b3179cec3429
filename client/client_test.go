package client_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gammelalf/dehashed/client"
)

const (
	testEmail  = "account@example.com"
	testAPIKey = "ABCDEF123456"
)

func TestBuild_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		email  string
		apiKey string
		expErr bool
	}{
		{name: "valid", email: testEmail, apiKey: testAPIKey},
		{name: "missing email", email: "", apiKey: testAPIKey, expErr: true},
		{name: "invalid email", email: "not-an-email", apiKey: testAPIKey, expErr: true},
		{name: "missing api key", email: testEmail, apiKey: "", expErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := client.Build(tc.email, tc.apiKey)
			if tc.expErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if c == nil {
				t.Fatal("expected non-nil client")
			}
		})
	}
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "domain:example.com" {
			t.Errorf("query param = %q, want %q", got, "domain:example.com")
		}
		if got := r.URL.Query().Get("size"); got != "10000" {
			t.Errorf("size param = %q, want %q", got, "10000")
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header = %q", got)
		}

		// The api key is lowercased before it is used for basic auth.
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(testEmail+":abcdef123456"))
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Errorf("Authorization header = %q, want %q", got, wantAuth)
		}

		fmt.Fprint(w, `{
			"balance": 100,
			"entries": [{
				"id": "42",
				"email": "leaked@example.com",
				"username": "leaked",
				"password": "hunter2",
				"hashed_password": "",
				"ip_address": "192.0.2.1",
				"name": "",
				"vin": "",
				"address": "",
				"phone": "",
				"database_name": "somebreach"
			}],
			"success": true,
			"took": "10ms",
			"total": 1
		}`)
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	got, err := c.Search(context.Background(), client.Domain(client.Simple("example.com")))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	want := &client.SearchResult{
		Entries: []client.SearchEntry{{
			ID:           42,
			Email:        "leaked@example.com",
			Username:     "leaked",
			Password:     "hunter2",
			IPAddress:    netip.MustParseAddr("192.0.2.1"),
			DatabaseName: "somebreach",
		}},
		Balance: 100,
	}

	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b netip.Addr) bool { return a == b })); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_Pagination(t *testing.T) {
	// 5 records total with a page size of 2 means 3 requests.
	const total = 5
	const pageSize = 2

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			t.Errorf("bad page param: %v", err)
		}

		entries := ""
		for i := (page-1)*pageSize + 1; i <= min(page*pageSize, total); i++ {
			if entries != "" {
				entries += ","
			}
			entries += fmt.Sprintf(`{"id": "%d", "email": "", "username": "", "password": "", "hashed_password": "", "ip_address": "", "name": "", "vin": "", "address": "", "phone": "", "database_name": ""}`, i)
		}

		fmt.Fprintf(w, `{"balance": 50, "entries": [%s], "success": true, "took": "1ms", "total": %d}`, entries, total)
	}))
	defer server.Close()

	c := testClient(t, server.URL, client.WithPageSize(pageSize))

	got, err := c.Search(context.Background(), client.Domain(client.Simple("example.com")))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(got.Entries) != total {
		t.Fatalf("entries = %d, want %d", len(got.Entries), total)
	}
	for i, e := range got.Entries {
		if e.ID != uint64(i+1) {
			t.Errorf("entry %d has id %d, pages merged out of order", i, e.ID)
		}
	}
}

func TestSearch_StatusMapping(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		expErr error
	}{
		{name: "invalid query", status: http.StatusFound, expErr: client.ErrInvalidQuery},
		{name: "rate limited", status: http.StatusBadRequest, expErr: client.ErrRateLimited},
		{name: "unauthorized", status: http.StatusUnauthorized, expErr: client.ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, expErr: client.ErrUnauthorized},
		{name: "unexpected status", status: http.StatusTeapot, expErr: client.ErrUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			c := testClient(t, server.URL)

			_, err := c.Search(context.Background(), client.Domain(client.Simple("example.com")))
			if !errors.Is(err, tc.expErr) {
				t.Fatalf("expected %v, got: %v", tc.expErr, err)
			}
		})
	}
}

func TestSearch_UnexpectedStatusDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	_, err := c.Search(context.Background(), client.Domain(client.Simple("example.com")))

	var statusErr *client.UnexpectedStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected UnexpectedStatusError, got: %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", statusErr.StatusCode, http.StatusInternalServerError)
	}
	if statusErr.Body != "boom" {
		t.Errorf("body = %q, want %q", statusErr.Body, "boom")
	}
}

func TestSearch_SuccessFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"balance": 0, "entries": [], "success": false, "took": "1ms", "total": 0}`)
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	_, err := c.Search(context.Background(), client.Domain(client.Simple("example.com")))
	if !errors.Is(err, client.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got: %v", err)
	}
}

func TestSearch_MalformedResponse(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "broken json", body: `{"balance": `},
		{name: "non-numeric entry id", body: `{"balance": 0, "entries": [{"id": "not-a-number"}], "success": true, "took": "1ms", "total": 1}`},
		{name: "bad ip address", body: `{"balance": 0, "entries": [{"id": "1", "ip_address": "not-an-ip"}], "success": true, "took": "1ms", "total": 1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			c := testClient(t, server.URL)

			_, err := c.Search(context.Background(), client.Domain(client.Simple("example.com")))
			if !errors.Is(err, client.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got: %v", err)
			}
		})
	}
}

func TestSearch_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	c := testClient(t, server.URL)

	_, err := c.Search(context.Background(), client.Domain(client.Simple("example.com")))
	if !errors.Is(err, client.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got: %v", err)
	}
}

func TestSearch_WithUserAgent(t *testing.T) {
	const ua = "dehashed-test/1.0"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != ua {
			t.Errorf("User-Agent = %q, want %q", got, ua)
		}
		fmt.Fprint(w, `{"balance": 0, "entries": [], "success": true, "took": "1ms", "total": 0}`)
	}))
	defer server.Close()

	c := testClient(t, server.URL, client.WithUserAgent(ua))

	if _, err := c.Search(context.Background(), client.Domain(client.Simple("example.com"))); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func testClient(t *testing.T, baseURL string, opts ...client.Option) *client.Client {
	t.Helper()

	c, err := client.Build(testEmail, testAPIKey, append(opts, client.WithBaseURL(baseURL))...)
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	return c
}
