package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// rateLimitedClient throttles an inner client to a requests-per-minute
// budget. Waiting respects the caller's context, so a deadline hit while
// queued surfaces as a timeout like any other.
type rateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

func withRateLimit(inner Client, requestsPerMinute int) Client {
	return &rateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

func (c *rateLimitedClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		// Wait fails only when the context expires or the deadline cannot
		// possibly be met; both are timeouts from the caller's perspective.
		return "", &Error{Code: CodeTimeout, Message: "レート制限の待機がタイムアウトしました", Retryable: true, cause: err}
	}
	return c.inner.Generate(ctx, prompt)
}
