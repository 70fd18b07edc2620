package src

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blinkdb/src/log"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blinkdb_commands_total",
			Help: "Total number of processed commands",
		},
		[]string{"command"},
	)
	commandErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blinkdb_command_errors_total",
			Help: "Total number of commands answered with an error",
		},
		[]string{"command"},
	)
	evictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blinkdb_evictions_total",
		Help: "Keys evicted to stay within cache-size",
	})
	keysGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blinkdb_keys",
		Help: "Number of live keys",
	})
	connectionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blinkdb_connections",
		Help: "Number of open client connections",
	})
)

// ServeMetrics exposes /metrics on addr. The returned server is already
// listening in the background.
func ServeMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.NetLogger.Errorf("metrics server: %v", err)
		}
	}()
	log.NetLogger.Infof("metrics listening on %s", addr)
	return srv
}
