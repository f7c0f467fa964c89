package usecase

import (
	"context"
	"fmt"
	"time"

	"SpyReg/internal/domain/models"
	domrepo "SpyReg/internal/domain/repository"
	domsvc "SpyReg/internal/domain/service"
	"SpyReg/internal/services/analytics"
	"SpyReg/internal/services/features"
	"SpyReg/pkg/apperr"
	applogger "SpyReg/pkg/logger"
)

// PipelineOptions carries the run parameters resolved from configuration.
type PipelineOptions struct {
	// Series lists every input index; names must match the panel.
	Series        []domrepo.IndexSpec
	Target        string
	TrainSize     int
	TestSize      int
	Plots         bool
	ScatterPath   string
	ScatterMatrix string
}

// Result is everything a run produces.
type Result struct {
	Table        *models.Table
	Split        *models.Split
	Model        *models.Model
	Correlations []analytics.Correlation
	Report       *models.AssessmentReport
	Shapes       []models.Shape // taken before yhat is attached
}

// Pipeline runs load, build, save, split, fit, assess and plot once.
type Pipeline struct {
	source  domrepo.SeriesSource
	sink    domrepo.FeatureSink
	builder *features.Builder
	fitter  domsvc.Fitter
	plotter domsvc.Plotter
	metrics domrepo.Metrics
	opts    PipelineOptions
	l       *applogger.Logger
}

// NewPipeline creates a pipeline. plotter may be nil when plots are disabled.
func NewPipeline(
	source domrepo.SeriesSource,
	sink domrepo.FeatureSink,
	builder *features.Builder,
	fitter domsvc.Fitter,
	plotter domsvc.Plotter,
	metrics domrepo.Metrics,
	opts PipelineOptions,
) *Pipeline {
	return &Pipeline{
		source:  source,
		sink:    sink,
		builder: builder,
		fitter:  fitter,
		plotter: plotter,
		metrics: metrics,
		opts:    opts,
		l:       applogger.NewNop(),
	}
}

// SetLogger injects a structured logger.
func (p *Pipeline) SetLogger(l *applogger.Logger) {
	if l != nil {
		p.l = l
	}
}

// Run executes every stage in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	series, err := p.load(ctx)
	if err != nil {
		return nil, p.fail("load", err)
	}

	res := &Result{}
	if err := p.stage(ctx, "build", func() (int, error) {
		spy := series[features.TargetSeries]
		delete(series, features.TargetSeries)
		t, err := p.builder.Build(spy, series)
		if err != nil {
			return 0, err
		}
		res.Table = t
		return t.Len(), nil
	}); err != nil {
		return nil, err
	}

	if err := p.stage(ctx, "save", func() (int, error) {
		return res.Table.Len(), p.sink.Save(ctx, res.Table, features.Columns())
	}); err != nil {
		return nil, err
	}

	if err := p.stage(ctx, "split", func() (int, error) {
		sp, err := analytics.Split(res.Table, p.opts.TrainSize, p.opts.TestSize)
		if err != nil {
			return 0, err
		}
		res.Split = sp
		res.Shapes = []models.Shape{
			models.ShapeOf("features", res.Table),
			models.ShapeOf("Train", sp.Train),
			models.ShapeOf("Test", sp.Test),
		}
		return sp.Train.Len() + sp.Test.Len(), nil
	}); err != nil {
		return nil, err
	}
	p.l.Info("split",
		applogger.Int("train_lo", res.Split.TrainLo),
		applogger.Int("test_lo", res.Split.TestLo),
		applogger.Int("rows", res.Table.Len()),
	)

	if err := p.stage(ctx, "correlate", func() (int, error) {
		cs, err := analytics.Correlations(res.Split.Train, p.opts.Target, correlationColumns())
		res.Correlations = cs
		return res.Split.Train.Len(), err
	}); err != nil {
		return nil, err
	}

	if err := p.stage(ctx, "fit", func() (int, error) {
		m, err := p.fitter.Fit(ctx, res.Split.Train, p.opts.Target, features.Regressors())
		res.Model = m
		return res.Split.Train.Len(), err
	}); err != nil {
		return nil, err
	}
	p.l.Info("model fitted",
		applogger.String("target", res.Model.Target),
		applogger.Strings("regressors", res.Model.Regressors),
		applogger.Any("params", res.Model.Params()),
	)

	if err := p.stage(ctx, "assess", func() (int, error) {
		rep, err := analytics.AssessTable(res.Split.Test, res.Split.Train, res.Model, res.Model.K(), p.opts.Target)
		if err != nil {
			return 0, err
		}
		res.Report = rep
		p.metrics.RecordAssessment("train", rep.Train)
		p.metrics.RecordAssessment("test", rep.Test)
		return res.Split.Train.Len() + res.Split.Test.Len(), nil
	}); err != nil {
		return nil, err
	}
	p.l.Info("assessment",
		applogger.Float64("train_adj_r2", res.Report.Train.AdjR2),
		applogger.Float64("train_rmse", res.Report.Train.RMSE),
		applogger.Float64("test_adj_r2", res.Report.Test.AdjR2),
		applogger.Float64("test_rmse", res.Report.Test.RMSE),
	)

	if p.opts.Plots && p.plotter != nil {
		if err := p.stage(ctx, "plot", func() (int, error) {
			train := res.Split.Train
			if err := p.plotter.Scatter(train, p.opts.Target, models.ColYHat, p.opts.ScatterPath); err != nil {
				return 0, err
			}
			return train.Len(), p.plotter.ScatterMatrix(train, features.Columns(), p.opts.ScatterMatrix)
		}); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (p *Pipeline) load(ctx context.Context) (map[string]*models.IndexSeries, error) {
	start := time.Now()
	out := make(map[string]*models.IndexSeries, len(p.opts.Series))
	bars := 0
	for _, spec := range p.opts.Series {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := p.source.Load(ctx, spec)
		if err != nil {
			return nil, err
		}
		out[spec.Name] = s
		bars += s.Len()
		p.l.Debug("series loaded",
			applogger.String("index", spec.Name),
			applogger.String("location", spec.Location),
			applogger.Int("rows", s.Len()),
		)
	}
	if _, ok := out[features.TargetSeries]; !ok {
		return nil, apperr.DataErrorf("target series not configured").
			WithParam("index", features.TargetSeries)
	}
	p.metrics.RecordStage("load", time.Since(start).Seconds(), bars)
	p.l.Info("series loaded", applogger.Int("series", len(out)), applogger.Int("rows", bars))
	return out, nil
}

// stage runs fn after a cancellation check and records its duration and row count.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() (int, error)) error {
	if err := ctx.Err(); err != nil {
		return p.fail(name, err)
	}
	start := time.Now()
	rows, err := fn()
	if err != nil {
		return p.fail(name, err)
	}
	elapsed := time.Since(start)
	p.metrics.RecordStage(name, elapsed.Seconds(), rows)
	p.l.Debug("stage done",
		applogger.String("stage", name),
		applogger.Int("rows", rows),
		applogger.Duration("duration_ms", elapsed),
	)
	return nil
}

func (p *Pipeline) fail(stage string, err error) error {
	code := apperr.CodeOf(err)
	if code == "" {
		code = "ERR_OTHER"
	}
	p.metrics.RecordError(code)
	p.l.Error("pipeline stage failed",
		applogger.String("stage", stage),
		applogger.String("code", code),
		applogger.Error(err),
	)
	return fmt.Errorf("%s: %w", stage, err)
}

// correlationColumns is every feature column except Price.
func correlationColumns() []string {
	var out []string
	for _, c := range features.Columns() {
		if c != models.ColPrice {
			out = append(out, c)
		}
	}
	return out
}
