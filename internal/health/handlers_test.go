package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-loyalty/internal/health"
)

func ready(t *testing.T, h health.Handler) (int, map[string]string) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	status := map[string]string{}
	if rr.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	}
	return rr.Code, status
}

func TestLive(t *testing.T) {
	rr := httptest.NewRecorder()
	health.Handler{}.Live(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func TestReadySuccess(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	h := health.Handler{
		Checks: map[string]health.Checker{
			"redis":   health.RedisChecker{Client: client},
			"catalog": health.DataChecker{Count: func() int { return 3 }},
		},
		Timeout: 50 * time.Millisecond,
	}
	code, status := ready(t, h)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, map[string]string{"redis": "ok", "catalog": "ok"}, status)
}

func TestReadyWithoutRedisConfigured(t *testing.T) {
	h := health.Handler{Checks: map[string]health.Checker{"redis": health.RedisChecker{}}}
	code, _ := ready(t, h)
	require.Equal(t, http.StatusOK, code)
}

func TestReadyFailure(t *testing.T) {
	h := health.Handler{
		Checks: map[string]health.Checker{
			"customers": health.DataChecker{Count: func() int { return 0 }},
			"broken": health.CheckerFunc(func(context.Context, time.Duration) error {
				return errors.New("down")
			}),
		},
		Timeout: 10 * time.Millisecond,
	}
	code, status := ready(t, h)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "not loaded", status["customers"])
	require.Equal(t, "down", status["broken"])
}

func TestReadinessAfterShutdown(t *testing.T) {
	h := health.Handler{Checks: map[string]health.Checker{"redis": health.RedisChecker{}}}

	health.SetReady(false)
	code, _ := ready(t, h)
	require.Equal(t, http.StatusServiceUnavailable, code)

	health.SetReady(true)
	code, _ = ready(t, h)
	require.Equal(t, http.StatusOK, code)
}
