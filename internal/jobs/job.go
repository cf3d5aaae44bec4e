// Package jobs runs cart mutations in the background. Callers enqueue a Job,
// receive a Handle and wait on it through a Coordinator; a Transport carries
// the job to whichever worker executes it with bounded retry.
package jobs

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TemirB/shopping-cart/internal/domain"
)

type Kind string

const (
	KindAdd    Kind = "ADD"
	KindRemove Kind = "REMOVE"
)

type State string

const (
	StatePending State = "PENDING"
	StateSuccess State = "SUCCESS"
	StateFailed  State = "FAILED"
)

// Job is also the wire envelope on the Kafka topic.
type Job struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	Name       string    `json:"name,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	LineID     int64     `json:"line_id,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func NewAddItem(name string, quantity int) (Job, error) {
	j := Job{ID: uuid.New(), Kind: KindAdd, Name: strings.TrimSpace(name), Quantity: quantity}
	if err := j.validate(); err != nil {
		return Job{}, err
	}
	return j, nil
}

func NewRemoveItem(lineID int64) Job {
	return Job{ID: uuid.New(), Kind: KindRemove, LineID: lineID}
}

func (j Job) validate() error {
	if j.ID == uuid.Nil {
		return fmt.Errorf("%w: job without id", domain.ErrInvalidInput)
	}
	switch j.Kind {
	case KindAdd:
		if j.Name == "" {
			return fmt.Errorf("%w: empty item name", domain.ErrInvalidInput)
		}
		if j.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrInvalidInput, j.Quantity)
		}
	case KindRemove:
	default:
		return fmt.Errorf("%w: unknown job kind %q", domain.ErrInvalidInput, j.Kind)
	}
	return nil
}

// Result is the terminal outcome of a job. Line is set for a successful add.
type Result struct {
	State    State
	Line     *domain.CartLine
	Attempts int
	Err      error
}

// Handle tracks one enqueued job. Done is closed exactly once, when the job
// reaches a terminal state.
type Handle struct {
	job  Job
	done chan struct{}
	once sync.Once

	mu     sync.RWMutex
	result Result
}

func newHandle(j Job) *Handle {
	return &Handle{
		job:    j,
		done:   make(chan struct{}),
		result: Result{State: StatePending},
	}
}

func (h *Handle) Job() Job { return h.job }

func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.result.State
}

func (h *Handle) Result() Result {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.result
}

// resolve records r and releases waiters. Later calls are ignored.
func (h *Handle) resolve(r Result) bool {
	resolved := false
	h.once.Do(func() {
		h.mu.Lock()
		h.result = r
		h.mu.Unlock()
		close(h.done)
		resolved = true
	})
	return resolved
}
