package metrics

import "time"

// ResultLabel enumerates per-page result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Stage names observed by the generator.
const (
	StageIndex     = "index"
	StageRender    = "render"
	StageWrite     = "write"
	StageCatalog   = "catalog"
	StageLinkCheck = "linkcheck"
)

// Recorder defines observability hooks for a generation run. All methods
// must be safe to call concurrently from render workers.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncPageResult(result ResultLabel)
	IncRunOutcome(outcome string) // outcome: success|partial|failed|canceled
	AddCommentWarnings(n int)
	AddBrokenLinks(n int)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncPageResult(ResultLabel)                  {}
func (NoopRecorder) IncRunOutcome(string)                       {}
func (NoopRecorder) AddCommentWarnings(int)                     {}
func (NoopRecorder) AddBrokenLinks(int)                         {}
func (NoopRecorder) SetWorkers(int)                             {}
