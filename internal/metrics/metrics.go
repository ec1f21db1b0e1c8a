package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsReceived counts decoded events pushed onto the queue.
	EventsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vaultwatch",
		Name:      "events_received_total",
		Help:      "Decoded vault events pushed onto the in-process queue.",
	})

	// DecodeFailures counts raw logs that matched no known event signature.
	DecodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vaultwatch",
		Name:      "decode_failures_total",
		Help:      "Raw logs dropped because they could not be decoded.",
	})

	// EventsProcessed counts events fully handled by the processor,
	// including suppressed ones.
	EventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vaultwatch",
		Name:      "events_processed_total",
		Help:      "Events drained from the queue and fully processed.",
	})

	// EventsFiltered counts reallocation events discarded by the
	// sender-exclusion filter.
	EventsFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vaultwatch",
		Name:      "events_filtered_total",
		Help:      "Reallocation events discarded because the vault's own allocator sent them.",
	})

	// AlertsSent counts delivered alert messages by destination chat.
	AlertsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vaultwatch",
		Name:      "alerts_sent_total",
		Help:      "Alert messages delivered to the notification sink.",
	}, []string{"chat"})
)

// Serve exposes the Prometheus endpoint on addr. It blocks until the server
// stops.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
