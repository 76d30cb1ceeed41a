package mot

import (
	"context"

	"github.com/LdDl/mot-cleaner/config"
	"github.com/LdDl/mot-cleaner/internal/monitoring"
	"github.com/pkg/errors"
)

// Result is output of the pipeline
type Result struct {
	Table   *Table
	Summary Summary
}

// Pipeline repairs tracker output: identity reconciliation first, then gap interpolation.
type Pipeline struct {
	cfg config.Config
}

// NewDefaultPipeline creates pipeline with default configuration
func NewDefaultPipeline() *Pipeline {
	return &Pipeline{cfg: config.Default()}
}

// NewPipeline creates pipeline. Configuration is validated here so an invalid one never reaches the data
func NewPipeline(cfg config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg}, nil
}

// Config returns pipeline configuration
func (p *Pipeline) Config() config.Config {
	return p.cfg
}

// Run cleans the table. Input table is left intact: reconciliation works on its copy.
func (p *Pipeline) Run(ctx context.Context, table *Table) (*Result, error) {
	if table == nil {
		return nil, errors.New("nil table")
	}
	summary := Summary{
		InputRows: table.Len(),
		Before:    NewTrackLengthStats(table),
	}

	reconciler := NewReconciler(table.Clone(), p.cfg.WindowTime, p.cfg.MaxOverlap)
	summary.Reconcile = reconciler.Reconcile()
	monitoring.Logf("reconciled %d windows: %d merges applied, %d rejected", summary.Reconcile.Windows, summary.Reconcile.Applied, summary.Reconcile.Rejected)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "Interrupted after reconciliation")
	}

	interpolator := NewInterpolator(p.cfg.FPS, p.cfg.FillMode, p.cfg.WorkerCount())
	cleaned, stats, err := interpolator.Interpolate(ctx, reconciler.Table())
	if err != nil {
		return nil, errors.Wrap(err, "Can't interpolate tracks")
	}
	summary.Interpolate = stats
	summary.OutputRows = cleaned.Len()
	summary.After = NewTrackLengthStats(cleaned)
	monitoring.Logf("interpolated %d tracks: %d detections synthesized", stats.FilledTracks, stats.Synthesized)

	return &Result{
		Table:   cleaned,
		Summary: summary,
	}, nil
}
