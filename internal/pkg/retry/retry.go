package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/TemirB/shopping-cart/internal/config"
)

// Do calls fn until it succeeds or policy.Attempts retries have been spent,
// so fn runs at most policy.Attempts+1 times. Attempt numbers start at 1.
// The delay before retry i is Base*2^(i-1) capped at Max; Base 0 retries
// immediately. It returns the number of attempts made and the last error.
func Do(ctx context.Context, policy config.Retry, fn func(attempt int) error) (int, error) {
	d := policy.Base
	var err error

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	total := policy.Attempts + 1
	if total < 1 {
		total = 1
	}

	for i := 1; i <= total; i++ {
		if err = fn(i); err == nil {
			return i, nil
		}
		if i == total {
			return i, err
		}

		delay := d
		if policy.JitterFactor > 0 && delay > 0 {
			jitter := 1 + policy.JitterFactor*(2*r.Float64()-1)
			delay = time.Duration(float64(delay) * jitter)
		}
		if policy.Max > 0 && delay > policy.Max {
			delay = policy.Max
		}

		if delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return i, ctx.Err()
			}
		} else if ctx.Err() != nil {
			return i, ctx.Err()
		}

		d *= 2
		if policy.Max > 0 && d > policy.Max {
			d = policy.Max
		}
	}
	return total, err
}
