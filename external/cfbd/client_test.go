package cfbd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cfbwatch/scoreboard/internal/platform/logging"
	"github.com/cfbwatch/scoreboard/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		Token:          "test-token",
		MaxRetries:     maxRetries,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
	return client, srv
}

func TestClient_SendsBearerAuthAndQuery(t *testing.T) {
	t.Parallel()

	var gotAuth, gotYear string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotYear = r.URL.Query().Get("year")
		w.Write([]byte(`[]`))
	}, 0)

	if _, err := client.FetchRecords(context.Background(), "2024"); err != nil {
		t.Fatalf("FetchRecords error: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
	if gotYear != "2024" {
		t.Fatalf("unexpected year query: %q", gotYear)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}, 1)

	if _, err := client.FetchRecords(context.Background(), "2024"); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestClient_DoesNotRetryPermanentStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}, 3)

	_, err := client.FetchRecords(context.Background(), "2024")
	if err == nil {
		t.Fatal("expected error on 401")
	}
	if IsTransient(err) {
		t.Fatalf("401 must not be transient: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("permanent status must not retry: attempts=%d", got)
	}
}

func TestClient_CircuitOpenShortCircuits(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL:    srv.URL,
		Token:      "test-token",
		MaxRetries: 0,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      resilience.DefaultCircuitBreakerConfig().OpenTimeout,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchRecords(context.Background(), "2024"); err == nil {
		t.Fatal("expected transient failure")
	}

	_, err := client.FetchRecords(context.Background(), "2024")
	if !IsTransient(err) {
		t.Fatalf("expected unavailable error while circuit open, got %v", err)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`dial failed: Bearer secret-value rejected`, "secret-value")
	if got != "dial failed: Bearer REDACTED rejected" {
		t.Fatalf("token must be redacted: %q", got)
	}
}
