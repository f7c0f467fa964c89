package analytics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"SpyReg/internal/domain/models"
	"SpyReg/pkg/apperr"
)

var regressors = []string{
	models.ColSpyLag1, models.ColSP500, models.ColNasdaq, models.ColDJI,
	models.ColCAC40, models.ColDAXI, models.ColAORD, models.ColNikkei, models.ColHSI,
}

var trueCoef = []float64{0.12, -0.4, 1.5, 0.03, -2.2, 0.75, 0.9, -0.05, 0.3}

const trueIntercept = 0.25

// linearTable builds n rows of smooth but non-collinear regressors with
// spy = intercept + x·coef + noise(i).
func linearTable(t *testing.T, n int, noise func(i int) float64) *models.Table {
	t.Helper()
	tb := models.NewTable(n)
	xs := make([][]float64, len(regressors))
	for j := range regressors {
		xs[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			xs[j][i] = math.Sin(float64(i*(j+1))*0.29+float64(j)) + 0.1*math.Cos(float64(i)*0.011*float64(j+2))
		}
	}
	y := make([]float64, n)
	for i := range y {
		v := trueIntercept
		for j := range xs {
			v += trueCoef[j] * xs[j][i]
		}
		if noise != nil {
			v += noise(i)
		}
		y[i] = v
	}
	require.NoError(t, tb.SetColumn(models.ColSpy, y))
	for j, name := range regressors {
		require.NoError(t, tb.SetColumn(name, xs[j]))
	}
	return tb
}

func TestSplitWindows(t *testing.T) {
	tb := linearTable(t, 10, nil)

	sp, err := Split(tb, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, sp.TrainLo)
	assert.Equal(t, 7, sp.TrainHi)
	assert.Equal(t, 7, sp.TestLo)
	assert.Equal(t, 10, sp.TestHi)
	assert.Equal(t, []int{3, 4, 5, 6}, sp.Train.Pos)
	assert.Equal(t, []int{7, 8, 9}, sp.Test.Pos)

	require.NoError(t, sp.Train.SetColumn(models.ColSpy, []float64{999, 999, 999, 999}))
	orig, _ := tb.Column(models.ColSpy)
	assert.NotEqual(t, 999.0, orig[3], "train frame is independent of the source table")
}

func TestSplitExactFit(t *testing.T) {
	tb := linearTable(t, 7, nil)
	sp, err := Split(tb, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, sp.TrainLo)
	assert.Equal(t, 4, sp.Train.Len())
	assert.Equal(t, 3, sp.Test.Len())
}

func TestSplitInsufficientHistory(t *testing.T) {
	tb := linearTable(t, 6, nil)
	_, err := Split(tb, 4, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientHistory))
	assert.Equal(t, apperr.CodeData, apperr.CodeOf(err))
}

func TestOLSRecoversNoiseFreeCoefficients(t *testing.T) {
	tb := linearTable(t, 2000, nil)
	sp, err := Split(tb, 1000, 1000)
	require.NoError(t, err)

	m, err := NewOLSFitter().Fit(context.Background(), sp.Train, models.ColSpy, regressors)
	require.NoError(t, err)

	assert.InDelta(t, trueIntercept, m.Intercept, 1e-8)
	require.Len(t, m.Coef, len(trueCoef))
	for j := range trueCoef {
		assert.InDelta(t, trueCoef[j], m.Coef[j], 1e-8, regressors[j])
	}
	assert.Equal(t, regressors, m.Regressors)
	assert.InDelta(t, 1.0, m.Summary.RSquared, 1e-10)

	rep, err := AssessTable(sp.Test, sp.Train, m, m.K(), models.ColSpy)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rep.Train.AdjR2, 1e-8)
	assert.InDelta(t, 1.0, rep.Test.AdjR2, 1e-8)
	assert.InDelta(t, 0.0, rep.Train.RMSE, 1e-8)
	assert.InDelta(t, 0.0, rep.Test.RMSE, 1e-8)
}

func TestOLSDeterministic(t *testing.T) {
	tb := linearTable(t, 300, func(i int) float64 { return 0.2 * math.Cos(1.7*float64(i)) })
	f := NewOLSFitter()
	a, err := f.Fit(context.Background(), tb, models.ColSpy, regressors)
	require.NoError(t, err)
	b, err := f.Fit(context.Background(), tb, models.ColSpy, regressors)
	require.NoError(t, err)
	assert.Equal(t, a.Params(), b.Params())
	assert.Equal(t, a.Summary, b.Summary)
}

func TestOLSSummaryMatchesSimpleRegression(t *testing.T) {
	const n = 200
	tb := models.NewTable(n)
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(0.3 * float64(i))
		y[i] = 1 + 2*x[i] + 0.8*math.Cos(1.7*float64(i))
	}
	require.NoError(t, tb.SetColumn("y", y))
	require.NoError(t, tb.SetColumn("x", x))

	m, err := NewOLSFitter().Fit(context.Background(), tb, "y", []string{"x"})
	require.NoError(t, err)

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	assert.InDelta(t, alpha, m.Intercept, 1e-9)
	assert.InDelta(t, beta, m.Coef[0], 1e-9)
	assert.InDelta(t, stat.RSquared(x, y, nil, alpha, beta), m.Summary.RSquared, 1e-9)

	var sse, sxx float64
	xbar := stat.Mean(x, nil)
	for i := range x {
		r := y[i] - alpha - beta*x[i]
		sse += r * r
		sxx += (x[i] - xbar) * (x[i] - xbar)
	}
	s2 := sse / float64(n-2)
	s := m.Summary
	assert.Equal(t, n, s.N)
	assert.Equal(t, 1, s.DFModel)
	assert.Equal(t, n-2, s.DFResid)
	assert.InDelta(t, math.Sqrt(s2/sxx), s.StdErr[1], 1e-9)
	assert.InDelta(t, math.Sqrt(s2), s.ResidStdErr, 1e-9)
	assert.InDelta(t, s.TStat[1]*s.TStat[1], s.FStat, 1e-6*s.FStat)
	assert.InDelta(t, s.PValue[1], s.FPValue, 1e-9)
	assert.Less(t, s.AdjRSquared, s.RSquared)
	for _, p := range s.PValue {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestOLSRankDeficient(t *testing.T) {
	tb := linearTable(t, 50, nil)
	sp500, _ := tb.Column(models.ColSP500)
	dup := make([]float64, len(sp500))
	for i, v := range sp500 {
		dup[i] = 2 * v
	}
	require.NoError(t, tb.SetColumn("sp500x2", dup))

	_, err := NewOLSFitter().Fit(context.Background(), tb, models.ColSpy, []string{models.ColSP500, "sp500x2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrRankDeficient))

	var ae *apperr.AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "sp500x2", ae.Field)
}

func TestOLSConstantRegressorIsRankDeficient(t *testing.T) {
	tb := linearTable(t, 50, nil)
	flat := make([]float64, 50)
	for i := range flat {
		flat[i] = 3
	}
	require.NoError(t, tb.SetColumn("flat", flat))

	_, err := NewOLSFitter().Fit(context.Background(), tb, models.ColSpy, []string{models.ColSP500, "flat"})
	assert.True(t, errors.Is(err, models.ErrRankDeficient))
}

func TestOLSNonFinite(t *testing.T) {
	tb := linearTable(t, 50, nil)
	col, _ := tb.Column(models.ColDAXI)
	col[17] = math.Inf(1)
	require.NoError(t, tb.SetColumn(models.ColDAXI, col))

	_, err := NewOLSFitter().Fit(context.Background(), tb, models.ColSpy, regressors)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNonFinite))
	assert.Contains(t, err.Error(), "row=17")
	assert.Contains(t, err.Error(), "column=daxi")
}

func TestOLSDegreesOfFreedom(t *testing.T) {
	tb := linearTable(t, 3, nil)
	_, err := NewOLSFitter().Fit(context.Background(), tb, models.ColSpy, regressors[:2])
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDegreesOfFreedom))
	assert.Equal(t, apperr.CodeDOF, apperr.CodeOf(err))
}

func TestOLSMissingColumn(t *testing.T) {
	tb := linearTable(t, 30, nil)
	_, err := NewOLSFitter().Fit(context.Background(), tb, models.ColSpy, []string{"ftse"})
	assert.True(t, errors.Is(err, models.ErrMissingColumn))
	assert.Equal(t, apperr.CodeSchema, apperr.CodeOf(err))
}

func TestOLSCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewOLSFitter().Fit(ctx, linearTable(t, 30, nil), models.ColSpy, regressors)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredictReplacesColumn(t *testing.T) {
	tb := models.NewTable(3)
	require.NoError(t, tb.SetColumn("x", []float64{1, 2, 3}))
	m := &models.Model{Target: "y", Regressors: []string{"x"}, Intercept: 1, Coef: []float64{2}}

	require.NoError(t, Predict(tb, m))
	yhat, ok := tb.Column(models.ColYHat)
	require.True(t, ok)
	assert.Equal(t, []float64{3, 5, 7}, yhat)

	m.Intercept = 0
	require.NoError(t, Predict(tb, m))
	yhat, _ = tb.Column(models.ColYHat)
	assert.Equal(t, []float64{2, 4, 6}, yhat)
	assert.Equal(t, []string{"x", models.ColYHat}, tb.Names())
}

func TestAdjustedMetricPerfectPrediction(t *testing.T) {
	tb := models.NewTable(5)
	require.NoError(t, tb.SetColumn("x", []float64{1, 2, 3, 4, 6}))
	require.NoError(t, tb.SetColumn("y", []float64{3, 5, 7, 9, 13}))
	m := &models.Model{Target: "y", Regressors: []string{"x"}, Intercept: 1, Coef: []float64{2}}

	met, err := AdjustedMetric(tb, m, 1, "y")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, met.AdjR2, 1e-12)
	assert.InDelta(t, 0.0, met.RMSE, 1e-12)
}

func TestAdjustedMetricFormula(t *testing.T) {
	tb := models.NewTable(5)
	require.NoError(t, tb.SetColumn("x", []float64{1, 2, 3, 4, 5}))
	require.NoError(t, tb.SetColumn("y", []float64{2, 4, 5, 4, 5}))
	m := &models.Model{Target: "y", Regressors: []string{"x"}, Intercept: 2.2, Coef: []float64{0.6}}

	met, err := AdjustedMetric(tb, m, 1, "y")
	require.NoError(t, err)
	// ybar=4, yhat=[2.8 3.4 4.0 4.6 5.2]: SST=6, SSR=3.6, SSE=2.4.
	r2 := 3.6 / 6.0
	assert.InDelta(t, 1-(1-r2)*4.0/3.0, met.AdjR2, 1e-12)
	assert.InDelta(t, math.Sqrt(2.4/3.0), met.RMSE, 1e-12)
}

func TestAdjustedMetricDegreesOfFreedom(t *testing.T) {
	tb := models.NewTable(2)
	require.NoError(t, tb.SetColumn("x", []float64{1, 2}))
	require.NoError(t, tb.SetColumn("y", []float64{1, 2}))
	m := &models.Model{Target: "y", Regressors: []string{"x"}, Coef: []float64{1}}

	_, err := AdjustedMetric(tb, m, 1, "y")
	assert.True(t, errors.Is(err, models.ErrDegreesOfFreedom))
	_, ok := tb.Column(models.ColYHat)
	assert.False(t, ok)
}

func TestAdjustedMetricConstantTarget(t *testing.T) {
	tb := models.NewTable(4)
	require.NoError(t, tb.SetColumn("x", []float64{1, 2, 3, 4}))
	require.NoError(t, tb.SetColumn("y", []float64{5, 5, 5, 5}))
	m := &models.Model{Target: "y", Regressors: []string{"x"}, Intercept: 5, Coef: []float64{0}}

	_, err := AdjustedMetric(tb, m, 1, "y")
	assert.True(t, errors.Is(err, models.ErrNonFinite))
}

func TestAssessTableTrainBounded(t *testing.T) {
	tb := linearTable(t, 400, func(i int) float64 { return 0.5 * math.Sin(2.3*float64(i)) })
	sp, err := Split(tb, 250, 150)
	require.NoError(t, err)
	m, err := NewOLSFitter().Fit(context.Background(), sp.Train, models.ColSpy, regressors)
	require.NoError(t, err)

	rep, err := AssessTable(sp.Test, sp.Train, m, m.K(), models.ColSpy)
	require.NoError(t, err)
	assert.LessOrEqual(t, rep.Train.AdjR2, 1.0)
	assert.Greater(t, rep.Train.RMSE, 0.0)
	assert.Greater(t, rep.Test.RMSE, 0.0)
	assert.InDelta(t, m.Summary.AdjRSquared, rep.Train.AdjR2, 1e-9)

	rows := rep.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "R2", rows[0].Label)
	assert.Equal(t, "RMSE", rows[1].Label)
}

func TestCorrelations(t *testing.T) {
	tb := models.NewTable(5)
	require.NoError(t, tb.SetColumn("spy", []float64{1, 3, 2, 5, 4}))
	require.NoError(t, tb.SetColumn("up", []float64{3, 7, 5, 11, 9}))
	require.NoError(t, tb.SetColumn("down", []float64{-1, -3, -2, -5, -4}))

	got, err := Correlations(tb, "spy", []string{"spy", "up", "down"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "up", got[1].Name)
	assert.InDelta(t, 1.0, got[0].R, 1e-12)
	assert.InDelta(t, 1.0, got[1].R, 1e-12)
	assert.InDelta(t, -1.0, got[2].R, 1e-12)

	_, err = Correlations(tb, "spy", []string{"ftse"})
	assert.True(t, errors.Is(err, models.ErrMissingColumn))
}
