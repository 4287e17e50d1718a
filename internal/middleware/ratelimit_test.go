package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newRateLimitedHandler(t *testing.T, cfg RateLimitConfig) (http.Handler, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	handler := RateLimitMiddleware(redisClient, cfg, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	return handler, func() {
		redisClient.Close()
		mr.Close()
	}
}

// Exactly RequestsPerWindow requests succeed inside a window; the rest get 429.
func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("excessive requests are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			handler, cleanup := newRateLimitedHandler(t, RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            1 * time.Second,
				KeyPrefix:         "test_rate_limit",
			})
			defer cleanup()

			clientIP := "192.168.1.100"
			successCount := 0
			blockedCount := 0

			totalRequests := requestsPerWindow + excessRequests
			for i := 0; i < totalRequests; i++ {
				req := httptest.NewRequest("GET", "/api/search", nil)
				req.RemoteAddr = clientIP
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				if w.Code == http.StatusOK {
					successCount++
				} else if w.Code == http.StatusTooManyRequests {
					blockedCount++
				}
			}

			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_RateLimitHeadersAreSet(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rate limit headers are present in responses", prop.ForAll(
		func(requestsPerWindow int) bool {
			handler, cleanup := newRateLimitedHandler(t, RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            1 * time.Second,
				KeyPrefix:         "test_rate_limit_headers",
			})
			defer cleanup()

			req := httptest.NewRequest("GET", "/api/search", nil)
			req.RemoteAddr = "192.168.1.101"
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			hasLimit := w.Header().Get("X-RateLimit-Limit") != ""
			hasRemaining := w.Header().Get("X-RateLimit-Remaining") != ""

			return hasLimit && hasRemaining
		},
		gen.IntRange(5, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Clients are limited independently of each other.
func TestRateLimit_ClientsAreIsolated(t *testing.T) {
	handler, cleanup := newRateLimitedHandler(t, RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            1 * time.Second,
		KeyPrefix:         "test_rate_limit_isolation",
	})
	defer cleanup()

	send := func(addr string) int {
		req := httptest.NewRequest("GET", "/api/cart", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	// Exhaust the first client's allowance.
	send("10.0.0.1")
	send("10.0.0.1")
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("third request for same client = %d, want 429", code)
	}

	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("first request for other client = %d, want 200", code)
	}
}
