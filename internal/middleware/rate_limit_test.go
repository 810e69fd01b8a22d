package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ufscompras/internal/testutil"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_BasicFunctionality(t *testing.T) {
	rl := NewRateLimiter(2, 2) // 2 req/sec, burst 2
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "192.168.1.1:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		testutil.AssertStatusCode(t, rr, http.StatusOK)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertJSONError(t, rr, http.StatusTooManyRequests, RateLimitMessage)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
}

func TestRateLimiter_KeyIgnoresSourcePort(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	req1 := httptest.NewRequest(http.MethodPost, "/", nil)
	req1.RemoteAddr = "10.0.0.1:1111"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req1)
	testutil.AssertStatusCode(t, rr, http.StatusOK)

	req2 := httptest.NewRequest(http.MethodPost, "/", nil)
	req2.RemoteAddr = "10.0.0.1:2222"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req2)
	testutil.AssertStatusCode(t, rr, http.StatusTooManyRequests)
}

func TestRateLimiter_PerClientLimiting(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	for _, addr := range []string{"192.168.1.1:1234", "192.168.1.2:1234"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		testutil.AssertStatusCode(t, rr, http.StatusOK)
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(20, 1) // one token every 50ms
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.168.1.9:1"

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertStatusCode(t, rr, http.StatusOK)

	time.Sleep(120 * time.Millisecond)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertStatusCode(t, rr, http.StatusOK)
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(1, 5)
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = "172.16.0.1:5000"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code == http.StatusOK {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, allowed, "only the burst may pass")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		rl.getLimiter(fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Equal(t, 3, rl.size())

	now = now.Add(limiterTTL + time.Minute)
	rl.getLimiter("10.0.0.99")
	rl.cleanup()

	assert.Equal(t, 1, rl.size(), "only the recently used limiter survives")
}

func TestRateLimiter_CleanupEvictsOldestOverCapacity(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	base := time.Now()
	tick := 0
	rl.now = func() time.Time { return base.Add(time.Duration(tick) * time.Millisecond) }

	for i := 0; i < maxLimiters+10; i++ {
		tick = i
		rl.getLimiter(fmt.Sprintf("key-%d", i))
	}
	rl.cleanup()

	assert.Equal(t, maxLimiters/2, rl.size())
	rl.mu.Lock()
	_, newest := rl.limiters[fmt.Sprintf("key-%d", maxLimiters+9)]
	_, oldest := rl.limiters["key-0"]
	rl.mu.Unlock()
	assert.True(t, newest)
	assert.False(t, oldest)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
