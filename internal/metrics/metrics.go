package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TurnsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "llamachat",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total number of completed chat turns",
		},
	)

	TurnErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "llamachat",
			Subsystem: "chat",
			Name:      "turn_errors_total",
			Help:      "Total number of chat turns that ended in a generation error",
		},
	)

	FragmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "llamachat",
			Subsystem: "chat",
			Name:      "fragments_total",
			Help:      "Total number of streamed response fragments",
		},
	)

	TurnDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "llamachat",
			Subsystem: "chat",
			Name:      "turn_duration_seconds",
			Help:      "Duration of one generation turn in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(TurnsTotal, TurnErrorsTotal, FragmentsTotal, TurnDuration)
}

// ObserveTurn records one finished turn.
func ObserveTurn(start time.Time, fragments int, err error) {
	TurnsTotal.Inc()
	FragmentsTotal.Add(float64(fragments))
	TurnDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		TurnErrorsTotal.Inc()
	}
}

// NewMux builds the router for the optional metrics listener.
func NewMux() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Serve blocks serving the metrics mux on addr. Callers run it in a goroutine.
func Serve(addr string) error {
	return http.ListenAndServe(addr, NewMux())
}
