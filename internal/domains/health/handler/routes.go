package handler

import (
	"net/http"
	"time"

	"github.com/hamidoujand/signup/pkg/logger"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Conf struct {
	DB    *sqlx.DB
	Log   *logger.Logger
	Build string
	//upper bound for a readiness probe, 10s when zero.
	Timeout time.Duration
}

// RegisterRoutes returns the probe endpoints, instrumented with otelhttp.
func RegisterRoutes(cfg Conf) http.Handler {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	h := handler{
		db:      cfg.DB,
		log:     cfg.Log,
		build:   cfg.Build,
		timeout: timeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/readiness", h.readiness)
	mux.HandleFunc("GET /v1/liveness", h.liveness)

	return otelhttp.NewHandler(mux, "health")
}
