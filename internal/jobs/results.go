package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TemirB/shopping-cart/internal/domain"
)

//go:generate mockgen -source internal/jobs/results.go -destination=internal/jobs/results_mock_test.go -package=jobs

// ResultBus carries terminal results from the process that ran a job to the
// one waiting on it.
type ResultBus interface {
	Publish(ctx context.Context, jobID uuid.UUID, res Result) error
}

type Resolver interface {
	Resolve(id uuid.UUID, res Result) bool
}

type resultMessage struct {
	JobID    uuid.UUID        `json:"job_id"`
	State    State            `json:"state"`
	Attempts int              `json:"attempts"`
	Line     *domain.CartLine `json:"line,omitempty"`
	Error    string           `json:"error,omitempty"`
	Causes   []string         `json:"causes,omitempty"`
}

// wireCauses are the sentinels a result error keeps across processes.
var wireCauses = []struct {
	name string
	err  error
}{
	{"retry_exhausted", domain.ErrJobRetryExhausted},
	{"not_found", domain.ErrNotFound},
	{"store_write", domain.ErrStoreWrite},
	{"invalid_input", domain.ErrInvalidInput},
	{"canceled", context.Canceled},
	{"deadline_exceeded", context.DeadlineExceeded},
}

// remoteError is an error decoded from another process. It matches the
// sentinels the original error matched.
type remoteError struct {
	msg    string
	causes []error
}

func (e *remoteError) Error() string   { return e.msg }
func (e *remoteError) Unwrap() []error { return e.causes }

func encodeResult(id uuid.UUID, res Result) ([]byte, error) {
	msg := resultMessage{
		JobID:    id,
		State:    res.State,
		Attempts: res.Attempts,
		Line:     res.Line,
	}
	if res.Err != nil {
		msg.Error = res.Err.Error()
		for _, c := range wireCauses {
			if errors.Is(res.Err, c.err) {
				msg.Causes = append(msg.Causes, c.name)
			}
		}
	}
	return json.Marshal(msg)
}

func decodeResult(b []byte) (uuid.UUID, Result, error) {
	var msg resultMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return uuid.Nil, Result{}, fmt.Errorf("decode job result: %w", err)
	}
	if msg.JobID == uuid.Nil {
		return uuid.Nil, Result{}, errors.New("decode job result: missing job id")
	}

	res := Result{State: msg.State, Attempts: msg.Attempts, Line: msg.Line}
	if msg.Error != "" || len(msg.Causes) > 0 {
		rerr := &remoteError{msg: msg.Error}
		for _, name := range msg.Causes {
			for _, c := range wireCauses {
				if c.name == name {
					rerr.causes = append(rerr.causes, c.err)
				}
			}
		}
		res.Err = rerr
	}
	return msg.JobID, res, nil
}
