// Package generate runs one documentation pass over a module: it writes a
// page per documentable type, the index page and optional metadata sidecars,
// then optionally registers the module in a catalog and verifies links.
//
// A failure to render one type is logged, counted and skipped; it never
// aborts the run. Only problems that make the whole output unusable (the
// output directory, the index page, cancellation) fail Run.
package generate

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"git.home.luguber.info/inful/xmldocmd/internal/catalog"
	"git.home.luguber.info/inful/xmldocmd/internal/comments"
	"git.home.luguber.info/inful/xmldocmd/internal/examples"
	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/linkcheck"
	"git.home.luguber.info/inful/xmldocmd/internal/links"
	"git.home.luguber.info/inful/xmldocmd/internal/logfields"
	"git.home.luguber.info/inful/xmldocmd/internal/metrics"
	"git.home.luguber.info/inful/xmldocmd/internal/observability"
	"git.home.luguber.info/inful/xmldocmd/internal/render"
	"git.home.luguber.info/inful/xmldocmd/internal/signature"
	"git.home.luguber.info/inful/xmldocmd/internal/surface"
	"github.com/google/uuid"
)

// Run outcomes reported to the metrics recorder.
const (
	OutcomeSuccess  = "success"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Registrar stores a module's page metadata for other modules to link to.
type Registrar interface {
	Register(ctx context.Context, module, base string, pages []catalog.Page) error
}

// Options configure a run.
type Options struct {
	OutputDir   string
	IndexPage   string
	Render      render.Options
	Links       links.Options
	Metadata    bool
	FrontMatter bool
	VerifyLinks bool
	Workers     int

	// Deps resolves signatures of other modules when Links.DependencyLinks
	// is set.
	Deps links.Lookup
	// Catalog, when set, receives the module's metadata under CatalogBase.
	Catalog     Registrar
	CatalogBase string

	Recorder metrics.Recorder
	RunID    string
}

// Failure is one type that could not be documented.
type Failure struct {
	Type string
	Err  error
}

// Result summarizes a run.
type Result struct {
	RunID           string
	Module          string
	Pages           []string // page names written, index page last
	Succeeded       int
	Failed          int
	Failures        []Failure
	CommentWarnings int
	Unmatched       []string // comment entries no documented symbol claims
	Links           *linkcheck.Report
	Duration        time.Duration
}

// Outcome classifies the result for metrics and exit codes.
func (r *Result) Outcome() string {
	switch {
	case r.Failed == 0:
		return OutcomeSuccess
	case r.Succeeded > 0:
		return OutcomePartial
	default:
		return OutcomeFailed
	}
}

// Generator documents one module.
type Generator struct {
	module   *surface.Module
	store    *comments.Store
	examples *examples.Dir
	opts     Options
}

// New returns a generator. store and ex may be nil: every member then renders
// without documentation and without examples.
func New(module *surface.Module, store *comments.Store, ex *examples.Dir, opts Options) *Generator {
	if opts.IndexPage == "" {
		opts.IndexPage = links.DefaultIndexPage
	}
	opts.Links.IndexPage = opts.IndexPage
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if store == nil {
		store = comments.NewStore()
	}
	return &Generator{module: module, store: store, examples: ex, opts: opts}
}

// Run generates the documentation set.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	rec := g.opts.Recorder
	ctx = observability.WithModule(observability.WithRunID(ctx, g.opts.RunID), g.module.Name)
	res := &Result{RunID: g.opts.RunID, Module: g.module.Name}

	err := g.run(ctx, res)
	res.Duration = time.Since(start)
	rec.ObserveRunDuration(res.Duration)
	switch {
	case ctx.Err() != nil:
		rec.IncRunOutcome(OutcomeCanceled)
	case err != nil:
		rec.IncRunOutcome(OutcomeFailed)
	default:
		rec.IncRunOutcome(res.Outcome())
		observability.InfoContext(ctx, "Generation finished",
			slog.Int("succeeded", res.Succeeded),
			slog.Int("failed", res.Failed),
			logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	}
	return res, err
}

func (g *Generator) run(ctx context.Context, res *Result) error {
	rec := g.opts.Recorder
	if err := os.MkdirAll(g.opts.OutputDir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			Fatal().
			WithContext("path", g.opts.OutputDir).
			Build()
	}

	warnings := g.store.Warnings()
	for _, w := range warnings {
		observability.WarnContext(ctx, "Skipped documentation comment entry", slog.String("entry", w.String()))
	}
	res.CommentWarnings = len(warnings)
	rec.AddCommentWarnings(len(warnings))

	types := documentable(g.module)
	observability.InfoContext(ctx, "Generation started",
		logfields.Path(g.opts.OutputDir),
		slog.Int("types", len(types)),
		slog.Int("comments", g.store.Len()))

	stageStart := time.Now()
	index := render.BuildIndex(types, g.store, g.examples, g.opts.Render)
	rec.ObserveStageDuration(metrics.StageIndex, time.Since(stageStart))
	for _, sig := range g.store.Signatures() {
		if _, ok := index.Lookup(sig); !ok {
			res.Unmatched = append(res.Unmatched, sig)
		}
	}
	if len(res.Unmatched) > 0 {
		observability.DebugContext(ctx, "Documentation comments without a documented symbol",
			logfields.Count(len(res.Unmatched)),
			slog.Any("signatures", res.Unmatched))
	}

	var deps links.Lookup
	if g.opts.Links.DependencyLinks {
		deps = g.opts.Deps
	}
	resolver := links.New(g.module.Name, g.opts.Links, index, deps)
	renderer := render.NewRenderer(g.store, resolver, g.examples, g.opts.Render)

	outcomes, err := g.renderAll(ctx, renderer, types)
	if err != nil {
		return err
	}

	var registered []catalog.Page
	for i, o := range outcomes {
		if o.err != nil {
			res.Failed++
			res.Failures = append(res.Failures, Failure{Type: signature.TypeFullDisplayName(types[i]), Err: o.err})
			continue
		}
		res.Succeeded++
		res.Pages = append(res.Pages, o.page.Name)
		registered = append(registered, catalog.Page{Name: o.page.Name, Records: o.page.Metadata})
	}

	stageStart = time.Now()
	if err := g.writeIndex(resolver, types); err != nil {
		return err
	}
	rec.ObserveStageDuration(metrics.StageWrite, time.Since(stageStart))
	res.Pages = append(res.Pages, g.opts.IndexPage)

	if g.opts.Catalog != nil {
		stageStart = time.Now()
		if err := g.opts.Catalog.Register(ctx, g.module.Name, g.opts.CatalogBase, registered); err != nil {
			return err
		}
		rec.ObserveStageDuration(metrics.StageCatalog, time.Since(stageStart))
		observability.InfoContext(ctx, "Registered module in catalog", logfields.Count(len(registered)))
	}

	if g.opts.VerifyLinks {
		stageStart = time.Now()
		report, err := linkcheck.CheckDir(g.opts.OutputDir)
		if err != nil {
			return err
		}
		rec.ObserveStageDuration(metrics.StageLinkCheck, time.Since(stageStart))
		rec.AddBrokenLinks(len(report.Broken))
		for _, b := range report.Broken {
			observability.WarnContext(ctx, "Broken link",
				logfields.Page(b.Page),
				slog.String("destination", b.Destination),
				slog.String("reason", string(b.Reason)))
		}
		res.Links = report
	}
	return nil
}

type outcome struct {
	page *render.Page
	err  error
}

// renderAll renders and writes every type on a bounded worker pool. Each
// worker owns the outcome slot of its type, so the result order is the input
// order regardless of scheduling.
func (g *Generator) renderAll(ctx context.Context, renderer *render.Renderer, types []*surface.Type) ([]outcome, error) {
	rec := g.opts.Recorder
	outcomes := make([]outcome, len(types))
	workers := min(g.opts.Workers, max(len(types), 1))
	rec.SetWorkers(workers)

	tasks := make(chan int)
	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for i := range tasks {
			select {
			case <-ctx.Done():
				return
			default:
			}
			outcomes[i] = g.renderOne(ctx, renderer, types[i])
		}
	}
	wg.Add(workers)
	for range workers {
		go worker()
	}
	for i := range types {
		select {
		case <-ctx.Done():
			close(tasks)
			wg.Wait()
			return nil, errors.WrapError(ctx.Err(), errors.CategoryRuntime, "generation canceled").Build()
		case tasks <- i:
		}
	}
	close(tasks)
	wg.Wait()
	if ctx.Err() != nil {
		return nil, errors.WrapError(ctx.Err(), errors.CategoryRuntime, "generation canceled").Build()
	}
	return outcomes, nil
}

func (g *Generator) renderOne(ctx context.Context, renderer *render.Renderer, t *surface.Type) outcome {
	rec := g.opts.Recorder
	name := signature.TypeFullDisplayName(t)

	start := time.Now()
	page, err := renderer.Render(t)
	rec.ObserveStageDuration(metrics.StageRender, time.Since(start))
	if err == nil {
		start = time.Now()
		err = g.writePage(page)
		rec.ObserveStageDuration(metrics.StageWrite, time.Since(start))
	}
	if err != nil {
		rec.IncPageResult(metrics.ResultFailed)
		observability.ErrorContext(ctx, "Failed to document type", logfields.Type(name), logfields.Error(err))
		return outcome{err: err}
	}
	rec.IncPageResult(metrics.ResultSuccess)
	observability.DebugContext(ctx, "Page written", logfields.Type(name), logfields.Page(page.Name))
	return outcome{page: page}
}

// documentable returns the module's types that get a page, in manifest order.
func documentable(m *surface.Module) []*surface.Type {
	var out []*surface.Type
	for _, t := range m.AllTypes() {
		if signature.IsDocumentable(t) {
			out = append(out, t)
		}
	}
	return out
}
