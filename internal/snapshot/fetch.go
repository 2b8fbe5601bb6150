package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"delivery-dashboard/internal/httpx"
)

// ErrMalformed marks a document whose top-level shape is not an object of
// tables. A missing table is fine (defaults to empty); a document that is
// not an object at all is not.
var ErrMalformed = errors.New("snapshot: malformed document")

// FetchError wraps any failure to retrieve the remote snapshot.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("snapshot: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves one full snapshot. Implementations must be safe for
// repeated calls; the pipeline fetches once per inbound request.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// HTTPFetcher pulls the snapshot from its public download URL.
type HTTPFetcher struct {
	URL   string
	HTTP  *http.Client
	Retry httpx.RetryConfig
}

// NewHTTPFetcher builds a fetcher with the standard per-request timeout and
// the fail-fast retry policy.
func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{
		URL: url,
		HTTP: &http.Client{
			Timeout: 2 * time.Minute,
		},
		Retry: httpx.FailFast(),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	body, err := httpx.Get(ctx, f.HTTP, f.URL, f.Retry)
	if err != nil {
		return nil, &FetchError{URL: f.URL, Err: err}
	}
	return Parse(body)
}

// Parse decodes a raw snapshot document. Missing tables decode to empty;
// any other structural mismatch surfaces as ErrMalformed.
func Parse(body []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &snap, nil
}
