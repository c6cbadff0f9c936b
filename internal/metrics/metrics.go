// Package metrics provides the centralized Prometheus registry for the
// forecasting pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "runs_total",
		Help:      "Total number of analysis runs started",
	})
	RunsAbortedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "runs_aborted_total",
		Help:      "Total number of analysis runs cancelled before completion",
	})
	GamesAnalyzedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "games_analyzed_total",
		Help:      "Total number of matchups forecast across all runs",
	})
	MarketsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "markets_skipped_total",
		Help:      "Total number of markets dropped for bad quotes or incompatible forecasts",
	})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "recommendations_total",
		Help:      "Total number of qualifying bets by grade",
	}, []string{"grade"})
	IngestedGamesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "ingested_games_total",
		Help:      "Total number of historical games written to the corpus",
	})
	OddsAPIRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "odds_api_requests_total",
		Help:      "Total number of requests sent to the odds provider",
	})
)

// Gauge metrics
var (
	CorpusSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puckline",
		Name:      "corpus_size",
		Help:      "Historical games available to the current run",
	})
	LastRunRecommendations = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puckline",
		Name:      "last_run_recommendations",
		Help:      "Qualifying bets emitted by the most recent run",
	})
	OddsAPIRequestsRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puckline",
		Name:      "odds_api_requests_remaining",
		Help:      "Request quota remaining at the odds provider",
	})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "puckline",
		Name:      "run_duration_seconds",
		Help:      "Duration of full analysis runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	ForecastDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "puckline",
		Name:      "forecast_duration_seconds",
		Help:      "Duration of per-matchup forecasting in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RunsTotal)
		registry.MustRegister(RunsAbortedTotal)
		registry.MustRegister(GamesAnalyzedTotal)
		registry.MustRegister(MarketsSkippedTotal)
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(IngestedGamesTotal)
		registry.MustRegister(OddsAPIRequestsTotal)

		registry.MustRegister(CorpusSize)
		registry.MustRegister(LastRunRecommendations)
		registry.MustRegister(OddsAPIRequestsRemaining)

		registry.MustRegister(RunDuration)
		registry.MustRegister(ForecastDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRun records a completed run and its duration.
func RecordRun(durationSeconds float64) {
	RunsTotal.Inc()
	RunDuration.Observe(durationSeconds)
}

// RecordRunAborted records a cancelled run.
func RecordRunAborted() {
	RunsAbortedTotal.Inc()
}

// RecordGameAnalyzed records one forecast matchup and its duration.
func RecordGameAnalyzed(durationSeconds float64) {
	GamesAnalyzedTotal.Inc()
	ForecastDuration.Observe(durationSeconds)
}

// RecordMarketSkipped records a market dropped during normalization or blending.
func RecordMarketSkipped() {
	MarketsSkippedTotal.Inc()
}

// RecordRecommendation records a qualifying bet by grade.
func RecordRecommendation(grade string) {
	RecommendationsTotal.WithLabelValues(grade).Inc()
}

// RecordIngestedGames records games written to the corpus.
func RecordIngestedGames(count int) {
	IngestedGamesTotal.Add(float64(count))
}

// RecordOddsAPIRequest records one odds provider request.
func RecordOddsAPIRequest() {
	OddsAPIRequestsTotal.Inc()
}

// UpdateCorpusSize updates the corpus size gauge.
func UpdateCorpusSize(size int) {
	CorpusSize.Set(float64(size))
}

// UpdateLastRunRecommendations updates the last-run bet count gauge.
func UpdateLastRunRecommendations(count int) {
	LastRunRecommendations.Set(float64(count))
}

// UpdateOddsAPIQuota updates the remaining odds provider quota gauge.
func UpdateOddsAPIQuota(remaining float64) {
	OddsAPIRequestsRemaining.Set(remaining)
}
