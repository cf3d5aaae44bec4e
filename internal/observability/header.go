package observability

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Timing is one phase of handling a request, in milliseconds.
type Timing struct {
	Name string
	Ms   float64
}

func (t Timing) String() string { return fmt.Sprintf("%s;dur=%.2f", t.Name, t.Ms) }

// AddTimings appends a single Server-Timing value listing the phases that
// took measurable time, e.g. "store;dur=1.20, compute;dur=0.35".
func AddTimings(h http.Header, timings ...Timing) {
	parts := make([]string, 0, len(timings))
	for _, t := range timings {
		if t.Ms > 0 {
			parts = append(parts, t.String())
		}
	}
	if len(parts) == 0 {
		return
	}
	h.Add("Server-Timing", strings.Join(parts, ", "))
}

// SinceMs is the time elapsed since start in fractional milliseconds.
func SinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
