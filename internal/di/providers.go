package di

import (
	"context"
	"fmt"
	"io"
	"os"

	domrepo "SpyReg/internal/domain/repository"
	domsvc "SpyReg/internal/domain/service"
	"SpyReg/internal/handler/console"
	internalrepo "SpyReg/internal/repository"
	"SpyReg/internal/services/analytics"
	"SpyReg/internal/services/charts"
	"SpyReg/internal/services/features"
	"SpyReg/internal/usecase"
	pkgch "SpyReg/pkg/clickhouse"
	"SpyReg/pkg/config"
	applogger "SpyReg/pkg/logger"
	"SpyReg/pkg/metrics"
	"SpyReg/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client when the clickhouse
// source is configured; otherwise it returns nil.
func ProvideClickHouseClient(ctx context.Context, cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Source.Type != "clickhouse" {
		return nil, nil
	}
	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if err := client.InitSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideMetricsSink exposes the recorder through the domain interface.
func ProvideMetricsSink(rec *metrics.Recorder) domrepo.Metrics {
	return rec
}

// ProvideSeriesSource selects the CSV or ClickHouse bar source.
func ProvideSeriesSource(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) domrepo.SeriesSource {
	if ch != nil {
		src := internalrepo.NewCHSeriesSource(ch.DB(), ch.BarsTable())
		src.SetLogger(l)
		return src
	}
	src := internalrepo.NewCSVSeriesSource()
	src.SetLogger(l)
	return src
}

// ProvideFeatureSink creates the feature table CSV writer.
func ProvideFeatureSink(cfg *config.Config, l *applogger.Logger) domrepo.FeatureSink {
	sink := internalrepo.NewCSVFeatureSink(cfg.Output.FeatureTable)
	sink.SetLogger(l)
	return sink
}

// ProvideBuilder creates the feature table builder.
func ProvideBuilder(cfg *config.Config, l *applogger.Logger) *features.Builder {
	b := features.NewBuilder(domrepo.NormalizeAlignment(cfg.Data.Alignment))
	b.SetLogger(l)
	return b
}

// ProvideFitter creates the OLS fitter.
func ProvideFitter(l *applogger.Logger) domsvc.Fitter {
	f := analytics.NewOLSFitter()
	f.SetLogger(l)
	return f
}

// ProvidePlotter creates the chart renderer, or nil when plots are disabled.
func ProvidePlotter(cfg *config.Config, l *applogger.Logger) domsvc.Plotter {
	if !cfg.Output.Plots {
		return nil
	}
	p := charts.NewPlotter()
	p.SetLogger(l)
	return p
}

// ProvidePipelineOptions resolves run parameters from config.
func ProvidePipelineOptions(cfg *config.Config) usecase.PipelineOptions {
	specs := make([]domrepo.IndexSpec, 0, len(features.SeriesNames()))
	for _, name := range features.SeriesNames() {
		specs = append(specs, domrepo.IndexSpec{Name: name, Location: cfg.Location(name)})
	}
	return usecase.PipelineOptions{
		Series:        specs,
		Target:        cfg.Model.Target,
		TrainSize:     cfg.Split.TrainSize,
		TestSize:      cfg.Split.TestSize,
		Plots:         cfg.Output.Plots,
		ScatterPath:   cfg.Output.ScatterPlot,
		ScatterMatrix: cfg.Output.ScatterMatrix,
	}
}

// ProvidePipeline creates the pipeline use case.
func ProvidePipeline(
	source domrepo.SeriesSource,
	sink domrepo.FeatureSink,
	builder *features.Builder,
	fitter domsvc.Fitter,
	plotter domsvc.Plotter,
	m domrepo.Metrics,
	opts usecase.PipelineOptions,
	l *applogger.Logger,
) *usecase.Pipeline {
	p := usecase.NewPipeline(source, sink, builder, fitter, plotter, m, opts)
	p.SetLogger(l)
	return p
}

// ProvideReportWriter is where the report tables are printed.
func ProvideReportWriter() io.Writer {
	return os.Stdout
}

// ProvidePrinter creates the report printer.
func ProvidePrinter(w io.Writer) *console.Printer {
	return console.NewPrinter(w)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	pipeline *usecase.Pipeline,
	printer *console.Printer,
	rec *metrics.Recorder,
	ch *pkgch.Client,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, pipeline, printer, rec, ch, l)
}
