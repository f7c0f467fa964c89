package service

import (
	"context"

	"SpyReg/internal/domain/models"
)

// Fitter estimates a linear model of target on regressors from a table.
type Fitter interface {
	Fit(ctx context.Context, t *models.Table, target string, regressors []string) (*models.Model, error)
}

// Plotter renders diagnostic charts of a fitted window.
type Plotter interface {
	Scatter(t *models.Table, xCol, yCol, path string) error
	ScatterMatrix(t *models.Table, columns []string, path string) error
}
