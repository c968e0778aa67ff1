package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// retryDelay is the pause before the single retry attempt
var retryDelay = 2 * time.Second

// WithRetry runs fn and retries it exactly once if the first attempt fails
// with a transient error. Non-transient errors are returned immediately.
func WithRetry(ctx context.Context, op string, fn func(ctx context.Context) (string, error)) (string, error) {
	result, err := fn(ctx)
	if err == nil {
		return result, nil
	}

	if !IsTransient(err) {
		return "", err
	}

	log.Warn().Err(err).Str("operation", op).Msg("transient LLM failure, retrying once")

	select {
	case <-time.After(retryDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return fn(ctx)
}
