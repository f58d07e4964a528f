package ports

import "context"

// FetchResult is the body of a successful HTTP fetch.
type FetchResult struct {
	Body        []byte
	ContentType string
}

// Fetcher defines a plain HTTP document fetch with a conservative timeout.
// Non-2xx responses and transport failures are returned as errors; callers
// log and skip the source rather than aborting the run.
type Fetcher interface {
	Get(ctx context.Context, url string) (*FetchResult, error)
}
