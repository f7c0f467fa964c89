package repository

import (
	"context"

	"SpyReg/internal/domain/models"
)

// IndexSpec names one input series and where to read it from.
// Location is a file path for CSV sources and a symbol for database sources.
type IndexSpec struct {
	Name     string
	Location string
}

// SeriesSource loads daily index histories.
type SeriesSource interface {
	Load(ctx context.Context, spec IndexSpec) (*models.IndexSeries, error)
}

// FeatureSink persists the cleaned feature table.
type FeatureSink interface {
	Save(ctx context.Context, t *models.Table, columns []string) error
}

type Metrics interface {
	RecordStage(stage string, seconds float64, rows int)
	RecordError(kind string)
	RecordAssessment(window string, m models.Metric)
}
