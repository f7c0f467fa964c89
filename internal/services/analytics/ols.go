package analytics

import (
	"context"
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"SpyReg/internal/domain/models"
	domsvc "SpyReg/internal/domain/service"
	"SpyReg/pkg/apperr"
	applogger "SpyReg/pkg/logger"
)

// rankTol is the smallest |R_jj| / max|R_ii| accepted before a column is
// treated as a linear combination of the ones before it.
const rankTol = 1e-10

// OLSFitter fits ordinary least squares with an intercept via Householder QR.
type OLSFitter struct {
	l *applogger.Logger
}

func NewOLSFitter() *OLSFitter { return &OLSFitter{} }

// SetLogger injects a structured logger.
func (f *OLSFitter) SetLogger(l *applogger.Logger) { f.l = l }

func (f *OLSFitter) Fit(ctx context.Context, t *models.Table, target string, regressors []string) (*models.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	y, err := finiteColumn(t, target)
	if err != nil {
		return nil, err
	}
	xs := make([][]float64, len(regressors))
	for j, name := range regressors {
		if xs[j], err = finiteColumn(t, name); err != nil {
			return nil, err
		}
	}

	n, k := t.Len(), len(regressors)
	p := k + 1
	if n <= p {
		return nil, apperr.DOFErrorf("fewer rows than parameters").
			WithParam("rows", n).
			WithParam("params", p).
			WithError(models.ErrDegreesOfFreedom)
	}

	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j := range xs {
			x.Set(i, j+1, xs[j][i])
		}
	}
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(x)

	var r mat.Dense
	qr.RTo(&r)
	if j, ok := deficientColumn(&r, p); ok {
		name := "Intercept"
		if j > 0 {
			name = regressors[j-1]
		}
		return nil, apperr.DataErrorf("regressor is collinear with earlier columns").
			WithField(name).
			WithParam("rows", n).
			WithError(models.ErrRankDeficient)
	}

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yv); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, apperr.DataErrorf("design matrix is ill-conditioned").
				WithParam("condition", float64(cond)).
				WithError(models.ErrRankDeficient)
		}
		return nil, apperr.DataErrorf("least squares solve").WithError(err)
	}

	m := &models.Model{
		Target:     target,
		Regressors: append([]string(nil), regressors...),
		Intercept:  beta.AtVec(0),
		Coef:       make([]float64, k),
	}
	for j := 0; j < k; j++ {
		m.Coef[j] = beta.AtVec(j + 1)
	}

	summary, err := summarize(x, yv, &beta, &r)
	if err != nil {
		return nil, err
	}
	m.Summary = summary

	if f.l != nil {
		f.l.Info("ols fitted",
			applogger.String("target", target),
			applogger.Int("rows", n),
			applogger.Int("regressors", k),
			applogger.Float64("r2", summary.RSquared),
			applogger.Float64("adj_r2", summary.AdjRSquared),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return m, nil
}

// deficientColumn returns the first column whose R diagonal is negligible.
func deficientColumn(r *mat.Dense, p int) (int, bool) {
	maxDiag := 0.0
	for j := 0; j < p; j++ {
		maxDiag = math.Max(maxDiag, math.Abs(r.At(j, j)))
	}
	if maxDiag == 0 {
		return 0, true
	}
	for j := 0; j < p; j++ {
		if math.Abs(r.At(j, j)) <= rankTol*maxDiag {
			return j, true
		}
	}
	return 0, false
}

// summarize computes the classical OLS inference table. (XᵀX)⁻¹ is taken
// from the QR factor as R⁻¹R⁻ᵀ.
func summarize(x *mat.Dense, y, beta *mat.VecDense, r *mat.Dense) (models.FitSummary, error) {
	n, p := x.Dims()
	k := p - 1

	var fitted mat.VecDense
	fitted.MulVec(x, beta)

	ybar := mat.Sum(y) / float64(n)
	var sse, sst float64
	for i := 0; i < n; i++ {
		res := y.AtVec(i) - fitted.AtVec(i)
		sse += res * res
		d := y.AtVec(i) - ybar
		sst += d * d
	}
	dfResid := n - p
	s2 := sse / float64(dfResid)

	tri := mat.NewTriDense(p, mat.Upper, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			tri.SetTri(i, j, r.At(i, j))
		}
	}
	var rinv mat.TriDense
	if err := rinv.InverseTri(tri); err != nil {
		return models.FitSummary{}, apperr.DataErrorf("invert R factor").
			WithError(errors.Join(models.ErrRankDeficient, err))
	}
	var xtxInv mat.Dense
	xtxInv.Mul(&rinv, rinv.T())

	s := models.FitSummary{
		N:           n,
		DFModel:     k,
		DFResid:     dfResid,
		StdErr:      make([]float64, p),
		TStat:       make([]float64, p),
		PValue:      make([]float64, p),
		ResidStdErr: math.Sqrt(s2),
	}
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dfResid)}
	for j := 0; j < p; j++ {
		se := math.Sqrt(s2 * xtxInv.At(j, j))
		s.StdErr[j] = se
		s.TStat[j] = beta.AtVec(j) / se
		s.PValue[j] = tailProb(math.Abs(s.TStat[j]), tdist.CDF, 2)
	}

	s.RSquared = 1 - sse/sst
	s.AdjRSquared = 1 - (1-s.RSquared)*float64(n-1)/float64(dfResid)
	if k > 0 {
		ssr := sst - sse
		s.FStat = (ssr / float64(k)) / s2
		fdist := distuv.F{D1: float64(k), D2: float64(dfResid)}
		s.FPValue = tailProb(s.FStat, fdist.CDF, 1)
	}
	return s, nil
}

// tailProb returns tails*(1-cdf(x)); an infinite statistic from a perfect
// fit has probability zero.
func tailProb(x float64, cdf func(float64) float64, tails float64) float64 {
	if math.IsInf(x, 1) {
		return 0
	}
	if math.IsNaN(x) {
		return math.NaN()
	}
	return tails * (1 - cdf(x))
}

// finiteColumn returns a column, failing on absence or on NaN/Inf cells.
func finiteColumn(t *models.Table, name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, apperr.SchemaErrorf("column not found").
			WithField(name).
			WithError(models.ErrMissingColumn)
	}
	for i, v := range col {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperr.DataErrorf("value is not finite").
				WithField(name).
				WithParam("row", t.Pos[i]).
				WithError(models.ErrNonFinite)
		}
	}
	return col, nil
}

var _ domsvc.Fitter = (*OLSFitter)(nil)
