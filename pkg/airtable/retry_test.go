package airtable

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/airbase-go/airbase/pkg/common"
	"github.com/airbase-go/airbase/pkg/context"
)

func TestRetry_HonorsRetryAfterOn429(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"type":"RATE_LIMIT_REACHED","message":"slow down"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"usrL2PNC5o3H4lBEi","email":"foo@bar.com"}`))
	}))
	defer srv.Close()

	client := New(testToken,
		WithBaseURL(srv.URL+"/v0"),
		WithRateLimit(rate.Inf, 0),
	)

	start := time.Now()
	info, err := client.Whoami(context.Background())
	elapsed := time.Since(start)

	assert.NoError(t, err)
	assert.Equal(t, "usrL2PNC5o3H4lBEi", info.ID)
	assert.Equal(t, int32(2), hits.Load())
	assert.GreaterOrEqual(t, elapsed, time.Second, "must wait out Retry-After before the second attempt")
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"RATE_LIMIT_REACHED","message":"slow down"}}`))
	}))
	defer srv.Close()

	client := New(testToken,
		WithBaseURL(srv.URL+"/v0"),
		WithRateLimit(rate.Inf, 0),
		WithHTTPClient(common.RetryableHTTPClient(
			common.WithCheckRetry(checkRetry),
			common.WithMaxRetries(2),
			common.WithRetryWaitMin(time.Millisecond),
			common.WithRetryWaitMax(5*time.Millisecond),
		)),
	)

	_, err := client.Whoami(context.Background())

	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, int32(3), hits.Load(), "initial attempt plus two retries")
}

func TestRetry_NoRetryOnClientError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_REQUEST_UNKNOWN","message":"bad formula"}}`))
	}))
	defer srv.Close()

	client := New(testToken,
		WithBaseURL(srv.URL+"/v0"),
		WithRateLimit(rate.Inf, 0),
	)

	_, err := client.Whoami(context.Background())

	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
	var apiErr *Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestCheckRetry_Statuses(t *testing.T) {
	ctx := context.Background()
	for _, status := range []int{408, 429, 503, 504} {
		retry, err := checkRetry(ctx, &http.Response{StatusCode: status}, nil)
		assert.NoError(t, err)
		assert.True(t, retry, "status %d should retry", status)
	}
	for _, status := range []int{200, 400, 401, 404, 422, 500} {
		retry, err := checkRetry(ctx, &http.Response{StatusCode: status}, nil)
		assert.NoError(t, err)
		assert.False(t, retry, "status %d should not retry", status)
	}
}
