package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// rateLimited wraps a Client with a token-bucket limiter so the validator
// never exceeds the configured requests-per-second ceiling regardless of
// how many workers call Generate concurrently.
type rateLimited struct {
	client  Client
	limiter *rate.Limiter
}

// withRateLimit returns client unchanged when qps <= 0 (no limiting
// configured); otherwise it wraps it with a limiter whose burst equals one
// second's worth of requests.
func withRateLimit(client Client, qps float64) Client {
	if qps <= 0 {
		return client
	}
	burst := int(qps)
	if burst < 1 {
		burst = 1
	}
	return &rateLimited{client: client, limiter: rate.NewLimiter(rate.Limit(qps), burst)}
}

func (r *rateLimited) Generate(ctx context.Context, prompt, model string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.client.Generate(ctx, prompt, model)
}
