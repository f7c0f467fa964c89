package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"SpyReg/internal/domain/models"
	"SpyReg/pkg/apperr"
)

// Predict writes the model's prediction for every row into the yhat column,
// replacing any previous prediction.
func Predict(t *models.Table, m *models.Model) error {
	xs := make([][]float64, len(m.Regressors))
	for j, name := range m.Regressors {
		col, ok := t.Column(name)
		if !ok {
			return apperr.SchemaErrorf("regressor missing from table").
				WithField(name).
				WithError(models.ErrMissingColumn)
		}
		xs[j] = col
	}

	yhat := make([]float64, t.Len())
	for i := range yhat {
		v := m.Intercept
		for j, c := range m.Coef {
			v += c * xs[j][i]
		}
		yhat[i] = v
	}
	return t.SetColumn(models.ColYHat, yhat)
}

// AdjustedMetric predicts on t and scores the prediction against target.
// R² is SSR/SST, adjusted for k regressors; RMSE uses n-k-1 degrees of freedom.
func AdjustedMetric(t *models.Table, m *models.Model, k int, target string) (models.Metric, error) {
	y, ok := t.Column(target)
	if !ok {
		return models.Metric{}, apperr.SchemaErrorf("target missing from table").
			WithField(target).
			WithError(models.ErrMissingColumn)
	}
	n := t.Len()
	df := n - k - 1
	if df <= 0 {
		return models.Metric{}, apperr.DOFErrorf("not enough rows to score the model").
			WithParam("rows", n).
			WithParam("k", k).
			WithError(models.ErrDegreesOfFreedom)
	}
	if err := Predict(t, m); err != nil {
		return models.Metric{}, err
	}
	yhat, _ := t.Column(models.ColYHat)

	ybar := stat.Mean(y, nil)
	var sst, ssr, sse float64
	for i := range y {
		d := y[i] - ybar
		sst += d * d
		e := yhat[i] - ybar
		ssr += e * e
		r := y[i] - yhat[i]
		sse += r * r
	}

	r2 := ssr / sst
	met := models.Metric{
		AdjR2: 1 - (1-r2)*float64(n-1)/float64(df),
		RMSE:  math.Sqrt(sse / float64(df)),
	}
	if !finite(met.AdjR2) || !finite(met.RMSE) {
		return models.Metric{}, apperr.DataErrorf("metric is not finite").
			WithParam("rows", n).
			WithParam("sst", sst).
			WithError(models.ErrNonFinite)
	}
	return met, nil
}

// AssessTable scores the model on both windows.
func AssessTable(test, train *models.Table, m *models.Model, k int, target string) (*models.AssessmentReport, error) {
	tr, err := AdjustedMetric(train, m, k, target)
	if err != nil {
		return nil, err
	}
	te, err := AdjustedMetric(test, m, k, target)
	if err != nil {
		return nil, err
	}
	return &models.AssessmentReport{Train: tr, Test: te}, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
