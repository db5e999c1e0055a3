// Package debug provides handler for debugging the application.
package debug

import (
	"expvar"
	"net/http"
	"net/http/pprof"
)

// Mux returns a mux with the pprof and expvar endpoints registered on it and
// publishes the running build under "build".
func Mux(build string) *http.ServeMux {
	b, ok := expvar.Get("build").(*expvar.String)
	if !ok {
		b = expvar.NewString("build")
	}
	b.Set(build)

	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}
