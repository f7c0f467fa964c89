package models

// FitSummary carries the inferential statistics of an OLS fit.
// Per-parameter slices are ordered intercept first, then regressors.
type FitSummary struct {
	N           int
	DFModel     int
	DFResid     int
	StdErr      []float64
	TStat       []float64
	PValue      []float64
	RSquared    float64
	AdjRSquared float64
	FStat       float64
	FPValue     float64
	ResidStdErr float64
}

// Model is a fitted linear model. It is not modified after fitting.
type Model struct {
	Target     string
	Regressors []string
	Intercept  float64
	Coef       []float64
	Summary    FitSummary
}

// K returns the number of regressors, excluding the intercept.
func (m *Model) K() int { return len(m.Regressors) }

// Params returns the intercept followed by the regressor coefficients.
func (m *Model) Params() []float64 {
	out := make([]float64, 0, len(m.Coef)+1)
	out = append(out, m.Intercept)
	return append(out, m.Coef...)
}

// ParamNames mirrors Params.
func (m *Model) ParamNames() []string {
	out := make([]string, 0, len(m.Regressors)+1)
	out = append(out, "Intercept")
	return append(out, m.Regressors...)
}
