package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/TemirB/shopping-cart/internal/domain"
)

// Coordinator blocks a request until its job is terminal.
type Coordinator struct {
	timeout time.Duration
}

// NewCoordinator bounds every wait by timeout. Zero waits forever.
func NewCoordinator(timeout time.Duration) *Coordinator {
	return &Coordinator{timeout: timeout}
}

// Wait returns the job result. A failed job is reported as its error, a wait
// longer than the timeout as domain.ErrJobTimeout.
func (c *Coordinator) Wait(ctx context.Context, h *Handle) (Result, error) {
	var expired <-chan time.Time
	if c.timeout > 0 {
		t := time.NewTimer(c.timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-h.Done():
		res := h.Result()
		if res.State == StateFailed {
			return res, res.Err
		}
		return res, nil
	case <-expired:
		return h.Result(), fmt.Errorf("%w: job %s after %s", domain.ErrJobTimeout, h.Job().ID, c.timeout)
	case <-ctx.Done():
		return h.Result(), ctx.Err()
	}
}
