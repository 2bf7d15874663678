package airtable

import (
	"context"
	"net/http"
)

// checkRetry retries transport failures and the statuses Airtable returns
// for transient conditions. The paired backoff is retryablehttp's default,
// which honors Retry-After on 429 and 503 responses before falling back to
// exponential waits.
func checkRetry(ctx context.Context, res *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil || res == nil {
		return true, err
	}
	switch res.StatusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}
