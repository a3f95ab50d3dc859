package nlp

import (
	"context"

	"golang.org/x/time/rate"
)

// throttle bounds the rate of outbound model API calls so large claim
// sets do not trip provider rate limits.
type throttle struct {
	limiter *rate.Limiter
}

func newThrottle(requestsPerSecond float64, burst int) *throttle {
	if requestsPerSecond <= 0 {
		return &throttle{}
	}
	if burst <= 0 {
		burst = 5
	}
	return &throttle{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

func (t *throttle) wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}
