package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/squadup/pkg/metrics"
)

var metricsHandler = promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})

// HandleHealth handles GET /healthz by serving the metrics registry.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	metricsHandler.ServeHTTP(w, r)
}
