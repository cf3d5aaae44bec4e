package circuit

import (
	"errors"
	"sync"
	"time"

	"github.com/TemirB/shopping-cart/internal/config"
)

var ErrOpen = errors.New("circuit open")

type State int

const (
	Closed   State = iota // normal operation
	Open                  // calls rejected until OpenTimeout passes
	HalfOpen              // limited trial calls
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Breaker opens after Threshold consecutive failures in Closed state, rejects
// calls for OpenTimeout, then lets up to MaxHalfOpen trial calls through.
// A trial success closes it, a trial failure opens it again.
type Breaker struct {
	mu          sync.Mutex
	state       State
	errs        uint32
	threshold   uint32
	openTimeout time.Duration
	trial       uint32
	maxHalfOpen uint32
	lastChange  time.Time

	now func() time.Time
}

func New(cfg config.Breaker) *Breaker {
	if cfg.Threshold == 0 {
		cfg.Threshold = 1
	}
	if cfg.MaxHalfOpen == 0 {
		cfg.MaxHalfOpen = 1
	}
	return &Breaker{
		state:       Closed,
		threshold:   cfg.Threshold,
		openTimeout: cfg.OpenTimeout,
		maxHalfOpen: cfg.MaxHalfOpen,
		lastChange:  time.Now(),
		now:         time.Now,
	}
}

// Allow reports whether a call may proceed. Every nil return must be
// followed by exactly one Success, Failure or Release.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	switch b.state {
	case Open:
		if now.Sub(b.lastChange) < b.openTimeout {
			return ErrOpen
		}
		b.transitionTo(now, HalfOpen)
		b.trial++
		return nil
	case HalfOpen:
		if b.trial >= b.maxHalfOpen {
			return ErrOpen
		}
		b.trial++
		return nil
	default:
		return nil
	}
}

func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.transitionTo(b.now(), Closed)
	case Closed:
		b.errs = 0
	}
}

func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	switch b.state {
	case HalfOpen:
		b.transitionTo(now, Open)
	case Closed:
		b.errs++
		if b.errs >= b.threshold {
			b.transitionTo(now, Open)
		}
	}
}

// Release ends a call that says nothing about the dependency's health, such as
// one abandoned by its caller. A half-open trial slot is handed back.
func (b *Breaker) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == HalfOpen && b.trial > 0 {
		b.trial--
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transitionTo(now time.Time, next State) {
	b.state = next
	b.lastChange = now
	b.trial = 0
	if next == Closed {
		b.errs = 0
	}
}
