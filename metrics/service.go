package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler serves the given gatherer, or the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

type Service struct {
	RefreshRuns        prometheus.Counter
	RefreshFailures    *prometheus.CounterVec
	DerivationDuration prometheus.Histogram
	StaleViews         prometheus.Counter
	WebsocketClients   prometheus.Gauge
	ScoreSubmissions   *prometheus.CounterVec
	Advances           *prometheus.CounterVec
	Exports            *prometheus.CounterVec
}

// NewService creates and registers the collectors on registerer, or on the
// default registerer when none is given.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RefreshRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "standings_refresh_runs_total",
			Help: "Number of tournament snapshot refreshes attempted.",
		}),
		RefreshFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_refresh_failures_total",
			Help: "Number of snapshot refreshes that failed, by reason.",
		}, []string{"reason"}),
		DerivationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "standings_derivation_duration_seconds",
			Help:    "Time spent deriving a tournament view from a snapshot.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		StaleViews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "standings_stale_views_total",
			Help: "Number of views served from the last known good snapshot.",
		}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "standings_websocket_clients",
			Help: "Websocket clients currently subscribed to a tournament.",
		}),
		ScoreSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_score_submissions_total",
			Help: "Score submissions, by outcome.",
		}, []string{"outcome"}),
		Advances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_advances_total",
			Help: "Bracket generation requests forwarded to the backend, by action.",
		}, []string{"action"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "standings_exports_total",
			Help: "Standings workbooks produced, by target.",
		}, []string{"target"}),
	}

	reg.MustRegister(
		s.RefreshRuns,
		s.RefreshFailures,
		s.DerivationDuration,
		s.StaleViews,
		s.WebsocketClients,
		s.ScoreSubmissions,
		s.Advances,
		s.Exports,
	)

	return s
}

func (s *Service) IncRefreshRuns() {
	s.RefreshRuns.Inc()
}

func (s *Service) IncRefreshFailures(reason string) {
	s.RefreshFailures.WithLabelValues(reason).Inc()
}

func (s *Service) ObserveDerivationDuration(seconds float64) {
	s.DerivationDuration.Observe(seconds)
}

func (s *Service) IncStaleViews() {
	s.StaleViews.Inc()
}

func (s *Service) SetWebsocketClients(n int) {
	s.WebsocketClients.Set(float64(n))
}

func (s *Service) IncScoreSubmissions(outcome string) {
	s.ScoreSubmissions.WithLabelValues(outcome).Inc()
}

func (s *Service) IncAdvances(action string) {
	s.Advances.WithLabelValues(action).Inc()
}

func (s *Service) IncExports(target string) {
	s.Exports.WithLabelValues(target).Inc()
}
