// Package metrics exposes the service counters through expvar.
package metrics

import (
	"expvar"
	"runtime"
	"sync"
)

var mu sync.Mutex

// Metrics can be accessed concurrently thanks to expvar package.
type Metrics struct {
	goroutines *expvar.Int
	requests   *expvar.Int
	errors     *expvar.Int
	panics     *expvar.Int
	signups    *expvar.Int
}

// New returns the process wide counters, publishing them on first use.
func New() *Metrics {
	mu.Lock()
	defer mu.Unlock()

	return &Metrics{
		goroutines: intVar("goroutines"),
		requests:   intVar("requests"),
		errors:     intVar("errors"),
		panics:     intVar("panics"),
		signups:    intVar("signups"),
	}
}

// expvar panics on a second publish under the same name.
func intVar(name string) *expvar.Int {
	if v, ok := expvar.Get(name).(*expvar.Int); ok {
		return v
	}
	return expvar.NewInt(name)
}

func (m *Metrics) SetGoroutines() int {
	gs := runtime.NumGoroutine()
	m.goroutines.Set(int64(gs))
	return gs
}

func (m *Metrics) AddRequest() int {
	m.requests.Add(1)
	return int(m.requests.Value())
}

func (m *Metrics) AddPanic() int {
	m.panics.Add(1)
	return int(m.panics.Value())
}

func (m *Metrics) AddError() int {
	m.errors.Add(1)
	return int(m.errors.Value())
}

func (m *Metrics) AddSignup() int {
	m.signups.Add(1)
	return int(m.signups.Value())
}
