package metrics

// Metrics records what the standings service does. Services depend on this
// interface so tests can run without a Prometheus registry.
type Metrics interface {
	IncRefreshRuns()
	IncRefreshFailures(reason string)
	ObserveDerivationDuration(seconds float64)
	IncStaleViews()
	SetWebsocketClients(n int)
	IncScoreSubmissions(outcome string)
	IncAdvances(action string)
	IncExports(target string)
}

// Noop discards every observation.
type Noop struct{}

var _ Metrics = Noop{}

func (Noop) IncRefreshRuns()                   {}
func (Noop) IncRefreshFailures(string)         {}
func (Noop) ObserveDerivationDuration(float64) {}
func (Noop) IncStaleViews()                    {}
func (Noop) SetWebsocketClients(int)           {}
func (Noop) IncScoreSubmissions(string)        {}
func (Noop) IncAdvances(string)                {}
func (Noop) IncExports(string)                 {}
