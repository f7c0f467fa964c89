package analytics

import (
	"gonum.org/v1/gonum/stat"

	"SpyReg/internal/domain/models"
	"SpyReg/pkg/apperr"
)

// Correlation is the Pearson coefficient of one column against the target.
type Correlation struct {
	Name string
	R    float64
}

// Correlations returns the Pearson correlation of each named column with
// target, in the order given. A constant column yields NaN.
func Correlations(t *models.Table, target string, columns []string) ([]Correlation, error) {
	y, ok := t.Column(target)
	if !ok {
		return nil, apperr.SchemaErrorf("target missing from table").
			WithField(target).
			WithError(models.ErrMissingColumn)
	}
	out := make([]Correlation, 0, len(columns))
	for _, name := range columns {
		x, ok := t.Column(name)
		if !ok {
			return nil, apperr.SchemaErrorf("column missing from table").
				WithField(name).
				WithError(models.ErrMissingColumn)
		}
		out = append(out, Correlation{Name: name, R: stat.Correlation(x, y, nil)})
	}
	return out, nil
}
