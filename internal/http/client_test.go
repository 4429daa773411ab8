package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennelpay/ledger-go/internal/auth"
	ledgerhttp "github.com/fennelpay/ledger-go/internal/http"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

func newTestSigner(t *testing.T) *auth.Signer {
	t.Helper()

	pemKey, err := auth.GeneratePrivateKeyPEM()
	require.NoError(t, err)

	signer, err := auth.NewSigner("test-access-id", pemKey)
	require.NoError(t, err)

	return signer
}

func TestClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("signed request", func(t *testing.T) {
		t.Parallel()

		signer := newTestSigner(t)

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/transactions", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "ledger-go", request.Header.Get("User-Agent"))
			assert.Equal(t, "test-access-id", request.Header.Get("Access-Id"))
			assert.NotEmpty(t, request.Header.Get("Access-Time"))

			body, _ := io.ReadAll(request.Body)
			message := auth.CanonicalString(request.Method, request.URL.RequestURI(), request.Header.Get("Access-Time"), body)
			assert.True(t, auth.VerifySignature(signer.PublicKey(), message, request.Header.Get("Access-Signature")))

			_ = json.NewEncoder(writer).Encode(map[string]string{"status": "ok"})
		}))
		defer server.Close()

		client := ledgerhttp.NewClient(server.URL, signer)

		resp, err := client.Get(context.Background(), "/transactions", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "cursor=abc&limit=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := ledgerhttp.NewClient(server.URL, newTestSigner(t))

		query := url.Values{"limit": []string{"2"}, "cursor": []string{"abc"}}

		resp, err := client.Get(context.Background(), "/transactions", query)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("post body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "hello", body["description"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := ledgerhttp.NewClient(server.URL, newTestSigner(t))

		resp, err := client.Post(context.Background(), "/transactions", map[string]string{"description": "hello"})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("API error is translated", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(ledger.ErrorResponse{
				Errors: []ledger.APIError{{Code: "resourceNotFound", Message: "transaction not found"}},
			})
		}))
		defer server.Close()

		client := ledgerhttp.NewClient(server.URL, newTestSigner(t))

		_, err := client.Get(context.Background(), "/transactions/missing", nil)
		require.Error(t, err)
		assert.True(t, ledger.IsNotFound(err))
		assert.False(t, ledger.IsNetwork(err))
	})

	t.Run("unparseable error body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			_, _ = writer.Write([]byte("upstream exploded"))
		}))
		defer server.Close()

		client := ledgerhttp.NewClient(server.URL, newTestSigner(t))

		_, err := client.Get(context.Background(), "/transactions", nil)
		require.Error(t, err)

		errResp := &ledger.ErrorResponse{}
		require.ErrorAs(t, err, &errResp)
		assert.Equal(t, 502, errResp.StatusCode)
		assert.Contains(t, errResp.Error(), "upstream exploded")
	})

	t.Run("network failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close() // nothing listening anymore

		client := ledgerhttp.NewClient(server.URL, newTestSigner(t))

		_, err := client.Get(context.Background(), "/transactions", nil)
		require.Error(t, err)
		assert.True(t, ledger.IsNetwork(err))
		assert.False(t, ledger.IsNotFound(err))
	})

	t.Run("no retry by default", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := ledgerhttp.NewClient(server.URL, newTestSigner(t))

		_, err := client.Get(context.Background(), "/transactions", nil)
		require.Error(t, err)
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("opt-in retry", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				writer.WriteHeader(http.StatusInternalServerError)

				return
			}

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := ledgerhttp.NewClient(server.URL, newTestSigner(t),
			ledgerhttp.WithRetryConfig(2, time.Millisecond, 2*time.Millisecond))

		resp, err := client.Get(context.Background(), "/transactions", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int64(2), calls.Load())
	})
}

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "workspace-1", request.Header.Get("X-Workspace"))
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	collector := ledger.NewMetricsCollector()

	chain := ledger.NewInterceptorChain()
	chain.AddRequestInterceptor(ledger.HeaderInterceptor(map[string]string{"X-Workspace": "workspace-1"}))
	chain.AddRequestInterceptor(ledger.MetricsRequestInterceptor(collector))
	chain.AddResponseInterceptor(ledger.MetricsResponseInterceptor(collector))

	client := ledgerhttp.NewClient(server.URL, newTestSigner(t), ledgerhttp.WithInterceptors(chain))

	_, err := client.Get(context.Background(), "/transactions", nil)
	require.NoError(t, err)

	metrics := collector.GetMetrics("GET /transactions")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(1), metrics.TotalRequests)
	assert.Equal(t, int64(0), metrics.TotalErrors)
}
