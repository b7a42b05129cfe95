package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func geminiEnvelope(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":"` + text + `"}]}}]}`
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGeminiClient("test-key", 5*time.Second)
	c.baseURL = srv.URL
	return c
}

func TestGeminiGenerateText(t *testing.T) {
	ctx := context.Background()

	t.Run("ExtractsFirstCandidateText", func(t *testing.T) {
		c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("Expected POST, got %s", r.Method)
			}
			w.Write([]byte(geminiEnvelope("DAY 1: WORKOUT: squats")))
		})
		got, err := c.GenerateText(ctx, "plan please")
		if err != nil {
			t.Fatalf("Expected success, got %v", err)
		}
		if got != "DAY 1: WORKOUT: squats" {
			t.Errorf("Unexpected text: %q", got)
		}
	})

	t.Run("MissingKey", func(t *testing.T) {
		c := NewGeminiClient("", time.Second)
		if _, err := c.GenerateText(ctx, "x"); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("Expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("EmptyCandidates", func(t *testing.T) {
		c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		})
		if _, err := c.GenerateText(ctx, "x"); !errors.Is(err, ErrEmpty) {
			t.Errorf("Expected ErrEmpty, got %v", err)
		}
	})

	t.Run("BlankText", func(t *testing.T) {
		c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(geminiEnvelope("   ")))
		})
		if _, err := c.GenerateText(ctx, "x"); !errors.Is(err, ErrEmpty) {
			t.Errorf("Expected ErrEmpty for blank text, got %v", err)
		}
	})

	t.Run("MalformedEnvelope", func(t *testing.T) {
		c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": not-json`))
		})
		if _, err := c.GenerateText(ctx, "x"); !errors.Is(err, ErrProtocol) {
			t.Errorf("Expected ErrProtocol, got %v", err)
		}
	})

	t.Run("UpstreamStatusPropagated", func(t *testing.T) {
		c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		})
		_, err := c.GenerateText(ctx, "x")
		var statusErr *UpstreamStatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("Expected UpstreamStatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusTooManyRequests {
			t.Errorf("Expected status 429, got %d", statusErr.StatusCode)
		}
	})

	t.Run("TransportFailureRetriedThenUnavailable", func(t *testing.T) {
		oldBackoff := initialBackoff
		initialBackoff = time.Millisecond
		defer func() { initialBackoff = oldBackoff }()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // connection refused from here on

		c := NewGeminiClient("test-key", time.Second)
		c.baseURL = srv.URL
		if _, err := c.GenerateText(ctx, "x"); !errors.Is(err, ErrUnavailable) {
			t.Errorf("Expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("TimeoutIsTerminal", func(t *testing.T) {
		c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})
		c.httpClient.Timeout = 20 * time.Millisecond
		start := time.Now()
		_, err := c.GenerateText(ctx, "x")
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("Expected ErrTimeout, got %v", err)
		}
		if time.Since(start) > time.Second {
			t.Error("Timeout should not be retried")
		}
	})
}

func TestGroqGenerateText(t *testing.T) {
	ctx := context.Background()

	newTestGroq := func(t *testing.T, handler http.HandlerFunc) *GroqClient {
		t.Helper()
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		c := NewGroqClient("test-key", 5*time.Second)
		c.baseURL = srv.URL
		return c
	}

	t.Run("ExtractsFirstChoice", func(t *testing.T) {
		c := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("Unexpected auth header: %q", got)
			}
			w.Write([]byte(`{"choices":[{"message":{"content":"DAY 1: plan"}}]}`))
		})
		got, err := c.GenerateText(ctx, "plan please")
		if err != nil {
			t.Fatalf("Expected success, got %v", err)
		}
		if got != "DAY 1: plan" {
			t.Errorf("Unexpected text: %q", got)
		}
	})

	t.Run("MissingKey", func(t *testing.T) {
		c := NewGroqClient("", time.Second)
		if _, err := c.GenerateText(ctx, "x"); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("Expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("EmptyChoices", func(t *testing.T) {
		c := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		})
		if _, err := c.GenerateText(ctx, "x"); !errors.Is(err, ErrEmpty) {
			t.Errorf("Expected ErrEmpty, got %v", err)
		}
	})

	t.Run("UpstreamStatusPropagated", func(t *testing.T) {
		c := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		})
		_, err := c.GenerateText(ctx, "x")
		var statusErr *UpstreamStatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("Expected UpstreamStatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", statusErr.StatusCode)
		}
	})
}
