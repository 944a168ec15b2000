package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func limiterRequest(userID, tier string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/asset-list", nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if tier != "" {
		req.Header.Set("X-User-Tier", tier)
	}
	return req
}

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	limiter := NewRateLimiter(100, 1000)

	assert.True(t, limiter.Allow(limiterRequest("user-1", "")))
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	// 0 RPS means only the initial burst tokens are available
	limiter := NewRateLimiter(0, 1000)

	for i := 0; i < rateLimitBurst; i++ {
		assert.True(t, limiter.Allow(limiterRequest("user-1", "")), "request %d within burst", i)
	}
	assert.False(t, limiter.Allow(limiterRequest("user-1", "")))
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	limiter := NewRateLimiter(0, 1000)

	for i := 0; i < rateLimitBurst; i++ {
		limiter.Allow(limiterRequest("user-1", ""))
	}
	assert.False(t, limiter.Allow(limiterRequest("user-1", "")))
	assert.True(t, limiter.Allow(limiterRequest("user-2", "")))
}

func TestRateLimiterPaidTierGetsHigherRate(t *testing.T) {
	limiter := NewRateLimiter(100, 1000)

	limiter.Allow(limiterRequest("free-user", ""))
	limiter.Allow(limiterRequest("paid-user", "paid"))

	assert.Equal(t, float64(100), float64(limiter.limiters["free-user"].Limit()))
	assert.Equal(t, float64(1000), float64(limiter.limiters["paid-user"].Limit()))
}

func TestRateLimiterFallsBackToRemoteAddr(t *testing.T) {
	limiter := NewRateLimiter(100, 1000)

	req := limiterRequest("", "")
	assert.True(t, limiter.Allow(req))
	assert.Equal(t, "192.0.2.1", clientKey(req))
}
