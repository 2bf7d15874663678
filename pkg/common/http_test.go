package common

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomTransportUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewCustomTransport(nil)}

	_, err := client.Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, got)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom-agent")
	_, err = client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "custom-agent", got)
}

func TestConstantResponseHttpClient(t *testing.T) {
	client := ConstantResponseHttpClient(418, "teapot")

	res, err := client.Get("https://example.invalid/anything")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, 418, res.StatusCode)
	assert.Equal(t, "teapot", string(body))
}

func TestRetryableHTTPClientRetriesServerErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := RetryableHTTPClient(
		WithRetryWaitMin(0),
		WithRetryWaitMax(0),
	)

	res, err := client.Get(srv.URL)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 3, hits)
}
