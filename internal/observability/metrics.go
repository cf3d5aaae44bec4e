package observability

type Metrics interface {
	ObserveHTTP(method, route string, status int, durMs float64)
	ObserveJob(kind, state string, attempts int, durMs float64)
	ObserveReceipt(currency string, lines int, durMs float64)
	ObserveKafka(processMs float64, ok bool)
	IncRateCacheHit()
	IncRateCacheMiss()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) ObserveJob(string, string, int, float64)  {}
func (Noop) ObserveReceipt(string, int, float64)      {}
func (Noop) ObserveKafka(float64, bool)               {}
func (Noop) IncRateCacheHit()                         {}
func (Noop) IncRateCacheMiss()                        {}
