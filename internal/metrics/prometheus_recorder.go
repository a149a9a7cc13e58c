package metrics

import (
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "xmldocmd"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	stageDuration  *prom.HistogramVec
	runDuration    prom.Histogram
	pageResults    *prom.CounterVec
	runOutcome     *prom.CounterVec
	commentWarning prom.Counter
	brokenLinks    prom.Counter
	workers        prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual generation stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total generation run duration",
			Buckets:   prom.DefBuckets,
		}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_results_total",
			Help:      "Type pages by render result",
		}, []string{"result"}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Generation runs by final status",
		}, []string{"outcome"}),
		commentWarning: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "comment_warnings_total",
			Help:      "Documentation comment entries skipped while parsing",
		}),
		brokenLinks: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "broken_links_total",
			Help:      "Relative links in generated pages that do not resolve",
		}),
		workers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "render_workers",
			Help:      "Render worker count of the last run",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.runDuration, pr.pageResults, pr.runOutcome,
		pr.commentWarning, pr.brokenLinks, pr.workers)
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(result ResultLabel) {
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddCommentWarnings(n int) {
	if n > 0 {
		p.commentWarning.Add(float64(n))
	}
}

func (p *PrometheusRecorder) AddBrokenLinks(n int) {
	if n > 0 {
		p.brokenLinks.Add(float64(n))
	}
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	p.workers.Set(float64(n))
}

// WriteTextfile writes the recorder's registry to path in the text
// exposition format. The parent directory is created when missing.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return prom.WriteToTextfile(path, p.registry)
}
