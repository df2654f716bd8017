package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRetriesServerErrorsThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "upstream flake", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	var delays []time.Duration
	client := NewClient("test",
		WithRetryMaxAttempts(5),
		WithRetryBackoff(10*time.Millisecond, time.Second),
		WithSleeper(func(d time.Duration) { delays = append(delays, d) }),
	)

	body, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(body) != "payload" {
		t.Fatalf("body = %q, want payload", body)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("server saw %d calls, want 3", got)
	}
	if len(delays) != 2 {
		t.Fatalf("recorded %d sleeps, want 2", len(delays))
	}
	if !(delays[1] > delays[0]) {
		t.Fatalf("expected increasing backoff, got %v", delays)
	}
}

func TestClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("test",
		WithRetryMaxAttempts(5),
		WithSleeper(func(time.Duration) { t.Fatal("must not sleep on fatal error") }),
	)

	_, err := client.Get(context.Background(), server.URL, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected 404 status error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("server saw %d calls, want 1", got)
	}
}

func TestHonorsRetryAfterHeader(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "7")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	var delays []time.Duration
	client := NewClient("test",
		WithRetryMaxAttempts(3),
		WithSleeper(func(d time.Duration) { delays = append(delays, d) }),
	)

	if _, err := client.Get(context.Background(), server.URL, nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(delays) != 1 || delays[0] != 7*time.Second {
		t.Fatalf("delays = %v, want single 7s sleep", delays)
	}
}

func TestExhaustedAttemptsReportCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient("ttab",
		WithRetryMaxAttempts(2),
		WithRetryBackoff(time.Millisecond, time.Millisecond),
		WithSleeper(func(time.Duration) {}),
	)

	_, err := client.Get(context.Background(), server.URL, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed after 2 attempts") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancelledContextStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient("test",
		WithRetryMaxAttempts(5),
		WithSleeper(func(time.Duration) { cancel() }),
	)

	_, err := client.Get(ctx, server.URL, nil)
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
}

func TestRequestHeadersForwarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("USPTO-API-KEY") != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient("tsdr")
	header := http.Header{}
	header.Set("USPTO-API-KEY", "secret")
	if _, err := client.Get(context.Background(), server.URL, header); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
}

func TestBackoffDelayCapped(t *testing.T) {
	client := NewClient("test", WithRetryBackoff(3*time.Second, 60*time.Second))
	prev := time.Duration(0)
	for attempt := 1; attempt <= 10; attempt++ {
		delay := client.backoffDelay(attempt)
		if delay > 60*time.Second {
			t.Fatalf("attempt %d delay %v exceeds cap", attempt, delay)
		}
		if delay < prev {
			t.Fatalf("attempt %d delay %v decreased from %v", attempt, delay, prev)
		}
		prev = delay
	}
}
