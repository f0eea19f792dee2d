package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outbreak-etl/internal/observability"
)

const kampalaJSON = `[{"lat":"0.3177137","lon":"32.5813539","display_name":"Kampala, Central Region, Uganda","importance":0.68}]`

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(Options{
		BaseURL:           baseURL,
		UserAgent:         "disease_outbreak_tracker",
		RequestsPerSecond: 1000,
		Timeout:           2 * time.Second,
		RetryDelay:        time.Millisecond,
	}, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestClient_Resolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Kampala, Uganda", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "disease_outbreak_tracker", r.Header.Get("User-Agent"))
		jsonHandler(http.StatusOK, kampalaJSON)(w, r)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	result, err := c.Resolve(context.Background(), "Kampala, Uganda")
	require.NoError(t, err)

	assert.InDelta(t, 0.3177137, result.Lat, 1e-9)
	assert.InDelta(t, 32.5813539, result.Lon, 1e-9)
	assert.Equal(t, "Kampala, Central Region, Uganda", result.DisplayName)
	assert.InDelta(t, 0.68, result.Confidence, 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues(provider, "success")), 1e-9)
}

func TestClient_Resolve_NoResults(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, `[]`))
	defer srv.Close()

	c := testClient(t, srv.URL)
	result, err := c.Resolve(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.False(t, result.Found())
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues(provider, "empty")), 1e-9)
}

func TestClient_Resolve_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			jsonHandler(http.StatusServiceUnavailable, `{"error":"busy"}`)(w, r)
			return
		}
		jsonHandler(http.StatusOK, kampalaJSON)(w, r)
	}))
	defer srv.Close()

	result, err := testClient(t, srv.URL).Resolve(context.Background(), "Kampala")
	require.NoError(t, err)
	assert.True(t, result.Found())
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Resolve_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		jsonHandler(http.StatusTooManyRequests, `{"error":"slow down"}`)(w, r)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.Resolve(context.Background(), "Kampala")
	require.ErrorContains(t, err, "429")
	assert.Equal(t, int32(defaultAttempts), calls.Load())
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues(provider, "error")), 1e-9)
}

func TestClient_Resolve_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		jsonHandler(http.StatusForbidden, `{"error":"missing user agent"}`)(w, r)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).Resolve(context.Background(), "Kampala")
	require.ErrorContains(t, err, "403")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Resolve_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, `[{"lat":"north","lon":"32.5"}]`))
	defer srv.Close()

	_, err := testClient(t, srv.URL).Resolve(context.Background(), "Kampala")
	require.ErrorContains(t, err, "parse latitude")
}

func TestClient_Resolve_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		jsonHandler(http.StatusOK, kampalaJSON)(w, r)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := testClient(t, srv.URL).Resolve(ctx, "Kampala")
	require.Error(t, err)
}

func TestClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, `[]`))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, UserAgent: "test", RequestsPerSecond: 10},
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	start := time.Now()
	for range 3 {
		_, err := c.Resolve(context.Background(), "Gulu")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
