package server

import (
	"context"
	"errors"
	"fmt"

	"SpyReg/internal/handler/console"
	"SpyReg/internal/usecase"
	pkgch "SpyReg/pkg/clickhouse"
	"SpyReg/pkg/config"
	applogger "SpyReg/pkg/logger"
	"SpyReg/pkg/metrics"
)

// App encapsulates one pipeline run and the resources it holds.
type App struct {
	cfg      *config.Config
	pipeline *usecase.Pipeline
	printer  *console.Printer
	metrics  *metrics.Recorder
	chClient *pkgch.Client
	l        *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	pipeline *usecase.Pipeline,
	printer *console.Printer,
	rec *metrics.Recorder,
	chClient *pkgch.Client,
	l *applogger.Logger,
) *App {
	if l == nil {
		l = applogger.NewNop()
	}
	return &App{
		cfg:      cfg,
		pipeline: pipeline,
		printer:  printer,
		metrics:  rec,
		chClient: chClient,
		l:        l,
	}
}

// Run executes the pipeline once, prints the report and releases resources.
func (a *App) Run(ctx context.Context) error {
	a.l.Info("pipeline starting",
		applogger.String("env", a.cfg.Environment),
		applogger.String("source", a.cfg.Source.Type),
		applogger.String("alignment", a.cfg.Data.Alignment),
		applogger.Int("train_size", a.cfg.Split.TrainSize),
		applogger.Int("test_size", a.cfg.Split.TestSize),
	)

	if a.chClient != nil {
		if err := a.chClient.Health(ctx); err != nil {
			return errors.Join(fmt.Errorf("clickhouse health: %w", err), a.shutdown())
		}
	}

	res, err := a.pipeline.Run(ctx)
	if err == nil {
		err = a.report(res)
	}
	return errors.Join(err, a.shutdown())
}

func (a *App) report(res *usecase.Result) error {
	if err := a.printer.Shapes(res.Shapes...); err != nil {
		return err
	}
	if err := a.printer.Correlations(res.Model.Target, res.Correlations); err != nil {
		return err
	}
	if err := a.printer.Summary(res.Model); err != nil {
		return err
	}
	return a.printer.Assessment(res.Report)
}

// shutdown flushes metrics and closes infrastructure clients.
func (a *App) shutdown() error {
	var errs []error
	if path := a.cfg.Output.MetricsFile; path != "" && a.metrics != nil {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.l.Warn("metrics textfile error", applogger.Error(err))
			errs = append(errs, err)
		} else {
			a.l.Info("metrics written", applogger.String("path", path))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
