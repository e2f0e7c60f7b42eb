package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "buildsel"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once         sync.Once
	actions      *prom.CounterVec
	refreshes    *prom.CounterVec
	pollTicks    *prom.CounterVec
	pollDuration *prom.HistogramVec
	activePolls  prom.Gauge
}

// NewPrometheusRecorder constructs and registers the console metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.actions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Build actions dispatched, by action and result",
		}, []string{"action", "result"})
		pr.refreshes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Full snapshot refreshes by result",
		}, []string{"result"})
		pr.pollTicks = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "poll_ticks_total",
			Help:      "Reconciliation poll ticks by result",
		}, []string{"result"})
		pr.pollDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Time from poll start to its terminal state",
			Buckets:   []float64{3, 6, 15, 30, 60, 120, 300},
		}, []string{"outcome"})
		pr.activePolls = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "active_polls",
			Help:      "Reconciliation polls currently running",
		})
		reg.MustRegister(pr.actions, pr.refreshes, pr.pollTicks, pr.pollDuration, pr.activePolls)
	})
	return pr
}

func (p *PrometheusRecorder) IncAction(action string, result ResultLabel) {
	if p == nil || p.actions == nil {
		return
	}
	p.actions.WithLabelValues(action, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRefresh(result ResultLabel) {
	if p == nil || p.refreshes == nil {
		return
	}
	p.refreshes.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncPollTick(failed bool) {
	if p == nil || p.pollTicks == nil {
		return
	}
	res := ResultSuccess
	if failed {
		res = ResultFailed
	}
	p.pollTicks.WithLabelValues(string(res)).Inc()
}

func (p *PrometheusRecorder) ObservePoll(outcome PollOutcome, d time.Duration) {
	if p == nil || p.pollDuration == nil {
		return
	}
	p.pollDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetActivePolls(n int) {
	if p == nil || p.activePolls == nil {
		return
	}
	p.activePolls.Set(float64(n))
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
