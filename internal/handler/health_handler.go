package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"ufscompras/internal/messaging"
)

// Health returns basic health check
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// ReadinessCheck reports whether one dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// Pinger is anything with a context-aware liveness probe, such as the
// backend client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck adapts a Pinger.
func PingCheck(p Pinger) ReadinessCheck {
	return p.Ping
}

// RedisCheck pings the session store.
func RedisCheck(client *redis.Client) ReadinessCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// RabbitMQCheck reports whether the event publisher's connection is open.
func RabbitMQCheck(rmq *messaging.RabbitMQ) ReadinessCheck {
	return func(ctx context.Context) error {
		if rmq.IsClosed() {
			return errConnectionClosed
		}
		return nil
	}
}

var errConnectionClosed = errors.New("connection closed")

// Ready runs every check in parallel and answers 503 when any fails.
func Ready(checks map[string]ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var (
			mu      sync.Mutex
			results = make(map[string]HealthCheckResult, len(checks))
		)

		// Failures are reported per check, never through the group, so every
		// check runs to completion.
		var g errgroup.Group
		for name, check := range checks {
			g.Go(func() error {
				start := time.Now()
				err := check(ctx)

				result := HealthCheckResult{Status: "up", LatencyMs: time.Since(start).Milliseconds()}
				if err != nil {
					result.Status = "down"
					result.Error = err.Error()
				}

				mu.Lock()
				results[name] = result
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		status := "ready"
		code := http.StatusOK
		for _, result := range results {
			if result.Status != "up" {
				status = "not_ready"
				code = http.StatusServiceUnavailable
				break
			}
		}

		writeJSON(w, code, map[string]any{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"checks":    results,
		})
	}
}
