package ratelimit

import (
	"context"
	"fmt"

	"github.com/bookwise/bookwise/internal/config"
	"github.com/bwmarrin/snowflake"
)

// GenerateLimiter throttles slot-generation requests per tenant. Generation
// walks an entire date range with one round trip per slot, so a runaway client
// can hold a database busy for a long time.
type GenerateLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewGenerateLimiter(cfg config.Config, bucket *TokenBucket) *GenerateLimiter {
	if bucket == nil {
		return nil
	}
	return &GenerateLimiter{
		bucket: bucket,
		rate:   cfg.Redis.GenerateRate,
		burst:  cfg.Redis.GenerateBurst,
	}
}

// Allow reports whether the tenant may start another generation run. A nil
// limiter (redis not configured) always allows.
func (g *GenerateLimiter) Allow(ctx context.Context, tenantID snowflake.ID) (*Result, error) {
	if g == nil || g.bucket == nil {
		return &Result{Allowed: true}, nil
	}
	key := fmt.Sprintf("ratelimit:availability:generate:%s", tenantID.String())
	return g.bucket.Allow(ctx, key, g.rate, g.burst)
}
