// Package app runs one collaborator analysis end to end.
//
// An analysis moves through fixed phases: validate, ingest (adapters run in
// parallel), classify and store (single writer), invariant check, score,
// filter and report. The context is checked between phases; a cancelled run
// returns no partial report.
package app

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/cylin-ms/scenara-sub003/internal/adapters/ingest"
	"github.com/cylin-ms/scenara-sub003/internal/adapters/repository"
	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/cylin-ms/scenara-sub003/internal/domain/classify"
	"github.com/cylin-ms/scenara-sub003/internal/domain/filter"
	"github.com/cylin-ms/scenara-sub003/internal/domain/model"
	"github.com/cylin-ms/scenara-sub003/internal/domain/report"
	"github.com/cylin-ms/scenara-sub003/internal/domain/scoring"
	"github.com/cylin-ms/scenara-sub003/internal/domain/types"
	"github.com/cylin-ms/scenara-sub003/internal/domain/weighting"
	"github.com/cylin-ms/scenara-sub003/pkg/logger"
	"github.com/cylin-ms/scenara-sub003/pkg/metrics"
)

// Phase names, used for logs, metrics and cancellation errors.
const (
	PhaseValidate = "validate"
	PhaseIngest   = "ingest"
	PhaseStore    = "store"
	PhaseCheck    = "check"
	PhaseScore    = "score"
	PhaseFilter   = "filter"
	PhaseReport   = "report"
)

// Ingestion drop reasons reported to metrics.
const (
	dropMalformed   = "malformed"
	dropOutOfWindow = "out_of_window"
	dropSelfOnly    = "self_only"
	dropDuplicate   = "duplicate"
)

// Request is the input of one analysis.
type Request struct {
	Self model.Identity
	Now  time.Time

	// LookbackDays overrides the configured lookback when positive.
	LookbackDays int

	Sources ingest.Sources

	// Strict aborts on the first malformed record instead of skipping it.
	Strict bool

	// RequireAllSources fails the analysis when any present source is
	// unavailable.
	RequireAllSources bool
}

// Engine runs analyses. It holds only read-only configuration and is safe for
// concurrent use; every Analyze call owns its own state.
type Engine struct {
	cfg     config.Engine
	digest  string
	log     logger.Logger
	metrics *metrics.Manager
	builder *report.Builder
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithConfig sets the engine configuration. It is copied.
func WithConfig(cfg config.Engine) Option {
	return func(e *Engine) { e.cfg = cfg.Clone() }
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRecentWindow sets how close to the analysis instant an interaction must
// be to show as "recent" in evidence summaries.
func WithRecentWindow(d time.Duration) Option {
	return func(e *Engine) { e.builder = report.NewBuilder(report.WithRecentWindow(d)) }
}

// WithMetrics sets the metrics manager. A nil manager records nothing.
func WithMetrics(m *metrics.Manager) Option {
	return func(e *Engine) { e.metrics = m }
}

// New constructs an Engine. The configuration is validated eagerly; an
// invalid one returns an error matching config.ErrInvalidConfig.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:     config.DefaultEngine(),
		log:     logger.Discard(),
		builder: report.NewBuilder(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	e.digest = e.cfg.Digest()
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() config.Engine { return e.cfg.Clone() }

// Digest returns the configuration digest stamped on every report.
func (e *Engine) Digest() string { return e.digest }

// run carries the state of one Analyze call.
type run struct {
	req      Request
	lookback int
	window   ingest.Window
	diag     types.Diagnostics
	store    *repository.MemoryStore
}

// Analyze ranks the subject's collaborators from the supplied sources.
func (e *Engine) Analyze(ctx context.Context, req Request) (types.Report, error) {
	start := time.Now()
	rep, err := e.analyze(ctx, req)
	switch {
	case err == nil:
		e.metrics.RecordRun(metrics.StatusOK, time.Since(start))
	case errors.Is(err, ErrCancelled):
		e.metrics.RecordRun(metrics.StatusCancelled, time.Since(start))
	default:
		e.metrics.RecordRun(metrics.StatusFailed, time.Since(start))
	}
	return rep, err
}

func (e *Engine) analyze(ctx context.Context, req Request) (types.Report, error) {
	r, err := e.validate(req)
	if err != nil {
		return types.Report{}, err
	}
	log := e.log.With(logger.String("subject", string(req.Self)))

	if err := e.phase(ctx, log, PhaseIngest, func() error { return e.ingest(ctx, r) }); err != nil {
		return types.Report{}, err
	}
	if err := e.phase(ctx, log, PhaseCheck, func() error { return e.check(ctx, r) }); err != nil {
		return types.Report{}, err
	}

	var results []scoring.Result
	if err := e.phase(ctx, log, PhaseScore, func() (err error) {
		results, err = e.score(ctx, r)
		return err
	}); err != nil {
		return types.Report{}, err
	}

	var survivors []scoring.Result
	if err := e.phase(ctx, log, PhaseFilter, func() error {
		survivors = e.filter(ctx, r, results)
		return nil
	}); err != nil {
		return types.Report{}, err
	}

	var rep types.Report
	if err := e.phase(ctx, log, PhaseReport, func() error {
		all, err := r.store.All(ctx)
		if err != nil {
			return errors.Wrap(err, "read store")
		}
		rep = e.builder.Build(report.Meta{
			Subject:      req.Self,
			Now:          r.window.Now,
			LookbackDays: r.lookback,
			ConfigDigest: e.digest,
		}, survivors, all, r.store.CountBySource(ctx), r.diag)
		return nil
	}); err != nil {
		return types.Report{}, err
	}

	// A cancellation racing the last phase still yields no report.
	if err := ctx.Err(); err != nil {
		return types.Report{}, cancelled(err, "return")
	}
	e.metrics.SetRanking(rep.Diagnostics.Evaluated, len(rep.Collaborators))
	log.Debug(ctx, "analysis complete",
		logger.Int("evaluated", rep.Diagnostics.Evaluated),
		logger.Int("reported", len(rep.Collaborators)))
	return rep, nil
}

// phase checks for cancellation, then runs fn and records its latency.
func (e *Engine) phase(ctx context.Context, log logger.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return cancelled(err, name)
	}
	log.Debug(ctx, "phase start", logger.String("phase", name))
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	e.metrics.ObservePhase(name, elapsed)
	log.Debug(ctx, "phase done", logger.String("phase", name), logger.Duration("elapsed", elapsed))
	return err
}

func (e *Engine) validate(req Request) (*run, error) {
	switch {
	case req.Self == "":
		return nil, invalidRequest("subject identity must not be empty")
	case req.Now.IsZero():
		return nil, invalidRequest("analysis instant must be set")
	case req.LookbackDays < 0:
		return nil, invalidRequest("lookback_days must be non-negative, got %d", req.LookbackDays)
	}
	lookback := e.cfg.LookbackDays
	if req.LookbackDays > 0 {
		lookback = req.LookbackDays
	}
	return &run{
		req:      req,
		lookback: lookback,
		window:   ingest.NewWindow(req.Self, req.Now, lookback),
		diag:     types.NewDiagnostics(),
	}, nil
}

// ingest runs one task per source, then classifies and stores the batches in
// canonical source order from this goroutine only.
func (e *Engine) ingest(ctx context.Context, r *run) error {
	adapters := ingest.NewAdapters(r.req.Sources,
		ingest.WithStrict(r.req.Strict),
		ingest.WithDistributionLists(e.cfg.DistributionListPatterns),
		ingest.WithLogger(e.log.Named("ingest")),
	)
	batches := make([]ingest.Batch, len(adapters))
	failures := make([]error, len(adapters))

	g, gctx := errgroup.WithContext(ctx)
	for i, a := range adapters {
		if !r.req.Sources.Present(a.Source()) {
			r.diag.AbsentSources = append(r.diag.AbsentSources, a.Source())
			continue
		}
		g.Go(func() error {
			b, err := a.Ingest(gctx, r.window)
			switch {
			case err == nil:
				batches[i] = b
				return nil
			case errors.Is(err, ingest.ErrSourceUnavailable) && !r.req.RequireAllSources:
				failures[i] = err
				return nil
			default:
				return err
			}
		})
	}
	if len(r.diag.AbsentSources) > 0 {
		absent := make([]string, len(r.diag.AbsentSources))
		for i, src := range r.diag.AbsentSources {
			absent[i] = string(src)
		}
		e.log.Debug(ctx, "sources absent", logger.Strings("sources", absent))
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return cancelled(ctx.Err(), PhaseStore)
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return cancelled(err, PhaseStore)
	}

	for i, a := range adapters {
		src := a.Source()
		if failures[i] != nil {
			r.diag.UnavailableSources = append(r.diag.UnavailableSources, types.SourceFailure{
				Source:  src,
				Message: failures[i].Error(),
			})
			e.metrics.RecordSourceUnavailable(string(src))
			e.log.Warn(ctx, "source unavailable", logger.String("source", string(src)), logger.Error(failures[i]))
		}
		b := batches[i]
		r.diag.Malformed[src] = b.Malformed
		r.diag.OutOfWindow[src] = b.OutOfWindow
		r.diag.SelfOnly[src] = b.SelfOnly
		r.diag.Duplicates[src] = b.Duplicates
		e.metrics.AddIngested(string(src), len(b.Interactions))
		e.metrics.AddRecordsDropped(string(src), dropMalformed, b.Malformed)
		e.metrics.AddRecordsDropped(string(src), dropOutOfWindow, b.OutOfWindow)
		e.metrics.AddRecordsDropped(string(src), dropSelfOnly, b.SelfOnly)
		e.metrics.AddRecordsDropped(string(src), dropDuplicate, b.Duplicates)
	}

	return e.classifyAndStore(ctx, r, batches)
}

func (e *Engine) classifyAndStore(ctx context.Context, r *run, batches []ingest.Batch) error {
	if err := ctx.Err(); err != nil {
		return cancelled(err, PhaseStore)
	}
	classifier, err := classify.New(e.cfg)
	if err != nil {
		return err
	}
	total := 0
	for _, b := range batches {
		total += len(b.Interactions)
	}
	r.store = repository.NewMemoryStore(repository.WithCapacity(total))
	for _, b := range batches {
		for _, in := range b.Interactions {
			if err := r.store.Insert(ctx, classifier.Annotate(in)); err != nil {
				return violation("store %s interaction: %v", b.Source, err)
			}
		}
	}
	r.store.Seal(ctx)
	e.log.Debug(ctx, "interactions stored",
		logger.Int("interactions", total),
		logger.Int("meetings_memoized", classifier.CacheLen()))
	return nil
}

func (e *Engine) check(ctx context.Context, r *run) error {
	all, err := r.store.All(ctx)
	if err != nil {
		return violation("read store: %v", err)
	}
	return CheckInvariants(r.window, all)
}

func (e *Engine) score(ctx context.Context, r *run) ([]scoring.Result, error) {
	scorer := scoring.NewScorer(e.cfg, r.req.Self, weighting.New(e.cfg, r.window.Now))
	ids, err := r.store.Counterparts(ctx)
	if err != nil {
		return nil, violation("read store: %v", err)
	}
	results := make([]scoring.Result, 0, len(ids))
	for _, id := range ids {
		items, err := r.store.ByCounterpart(ctx, id)
		if err != nil {
			return nil, violation("read store: %v", err)
		}
		results = append(results, scorer.ScoreCounterpart(id, items))
	}
	r.diag.Evaluated = len(results)
	return results, nil
}

func (e *Engine) filter(ctx context.Context, r *run, results []scoring.Result) []scoring.Result {
	f := filter.New(e.cfg)
	survivors := make([]scoring.Result, 0, len(results))
	for _, res := range results {
		v := f.Evaluate(res)
		if v.Passed {
			survivors = append(survivors, res)
			continue
		}
		r.diag.Dropped++
		for _, reason := range v.Reasons {
			r.diag.DropReasons[string(reason)]++
		}
	}
	for _, reason := range filter.Reasons() {
		e.metrics.AddCounterpartsDropped(string(reason), r.diag.DropReasons[string(reason)])
	}
	e.log.Debug(ctx, "counterparts filtered",
		logger.Int("evaluated", len(results)),
		logger.Int("survivors", len(survivors)))
	return survivors
}
