//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"SpyReg/pkg/config"
	applogger "SpyReg/pkg/logger"
	"SpyReg/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(ctx context.Context, cfg *config.Config, l *applogger.Logger) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,
		ProvideMetricsSink,

		// Infrastructure clients
		ProvideClickHouseClient,

		// Repositories
		ProvideSeriesSource,
		ProvideFeatureSink,

		// Services
		ProvideBuilder,
		ProvideFitter,
		ProvidePlotter,

		// Use cases
		ProvidePipelineOptions,
		ProvidePipeline,

		// Output
		ProvideReportWriter,
		ProvidePrinter,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
