package observability

import "sync"

type observe struct {
	Kind     string
	Label    string
	Status   int
	Attempts int
	OK       bool
	DurMs    float64
}

// Inmem keeps the last max observations and rate-cache totals. Used by tests
// and as a fallback when Prometheus is not wanted.
type Inmem struct {
	mu     sync.Mutex
	last   []*observe
	max    int
	totals struct {
		cacheHits, cacheMiss int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max: max,
	}
}

func (m *Inmem) push(v *observe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[len(m.last)-m.max:]
	}
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(&observe{Kind: "http", Label: method + " " + route, Status: status, DurMs: durMs})
}

func (m *Inmem) ObserveJob(kind, state string, attempts int, durMs float64) {
	m.push(&observe{Kind: "job", Label: kind + " " + state, Attempts: attempts, OK: state == "SUCCESS", DurMs: durMs})
}

func (m *Inmem) ObserveReceipt(currency string, lines int, durMs float64) {
	m.push(&observe{Kind: "receipt", Label: currency, Attempts: lines, DurMs: durMs})
}

func (m *Inmem) ObserveKafka(processMs float64, ok bool) {
	m.push(&observe{Kind: "kafka", OK: ok, DurMs: processMs})
}

func (m *Inmem) IncRateCacheHit() {
	m.mu.Lock()
	m.totals.cacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncRateCacheMiss() {
	m.mu.Lock()
	m.totals.cacheMiss++
	m.mu.Unlock()
}

// Totals returns rate-cache hits and misses.
func (m *Inmem) Totals() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.cacheHits, m.totals.cacheMiss
}
