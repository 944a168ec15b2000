package api

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/portfolio-insights/internal/types"
)

// rateLimitBurst is the short-term burst allowance per client.
const rateLimitBurst = 10

// RateLimiter enforces per-client request rates, tiered by X-User-Tier.
type RateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	freeTierRPS int
	paidTierRPS int
}

// NewRateLimiter creates a rate limiter with per-tier requests-per-second caps.
func NewRateLimiter(freeTierRPS, paidTierRPS int) *RateLimiter {
	return &RateLimiter{
		limiters:    make(map[string]*rate.Limiter),
		freeTierRPS: freeTierRPS,
		paidTierRPS: paidTierRPS,
	}
}

// Allow reports whether the request fits within its client's rate budget.
func (rl *RateLimiter) Allow(r *http.Request) bool {
	key := clientKey(r)
	tier := types.UserTier(r.Header.Get("X-User-Tier"))
	if tier != types.TierPaid {
		tier = types.TierFree
	}

	rl.mu.Lock()
	limiter, ok := rl.limiters[key]
	if !ok {
		rps := rl.freeTierRPS
		if tier == types.TierPaid {
			rps = rl.paidTierRPS
		}
		limiter = rate.NewLimiter(rate.Limit(rps), rateLimitBurst)
		rl.limiters[key] = limiter
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// clientKey identifies the client by user ID, falling back to remote address.
func clientKey(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
