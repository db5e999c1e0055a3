// Package handler serves the liveness and readiness probes.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/hamidoujand/signup/internal/sqldb"
	"github.com/hamidoujand/signup/pkg/logger"
	"github.com/jmoiron/sqlx"
)

type handler struct {
	db      *sqlx.DB
	log     *logger.Logger
	build   string
	timeout time.Duration
}

func (h *handler) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := "ok"
	statusCode := http.StatusOK
	if err := sqldb.ConnCheck(ctx, h.db); err != nil {
		h.log.Error(ctx, "readiness failed", "err", err.Error())
		status = "db not ready"
		statusCode = http.StatusInternalServerError
	}

	writeJSON(w, statusCode, map[string]string{"status": status})
}

func (h *handler) liveness(w http.ResponseWriter, r *http.Request) {
	//host name from kernel
	host, err := os.Hostname()
	if err != nil {
		host = "unavailable"
	}

	info := Info{
		Status:     "up",
		Build:      h.build,
		Host:       host,
		Name:       os.Getenv("KUBERNETES_NAME"),
		PodIP:      os.Getenv("KUBERNETES_POD_IP"),
		Node:       os.Getenv("KUBERNETES_NODE_NAME"),
		Namespace:  os.Getenv("KUBERNETES_NAMESPACE"),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}

	writeJSON(w, http.StatusOK, info)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
