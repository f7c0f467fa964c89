package features

import (
	"math"
	"time"

	"SpyReg/internal/domain/models"
	domrepo "SpyReg/internal/domain/repository"
	"SpyReg/pkg/apperr"
	applogger "SpyReg/pkg/logger"
	"SpyReg/pkg/util"
)

// Builder assembles the feature table from the SPY series and the panel of
// foreign index series.
type Builder struct {
	alignment domrepo.Alignment
	l         *applogger.Logger
}

func NewBuilder(alignment domrepo.Alignment) *Builder {
	return &Builder{alignment: alignment}
}

// SetLogger injects a structured logger.
func (b *Builder) SetLogger(l *applogger.Logger) { b.l = l }

// Build returns a dense, chronological table with the columns of Columns().
//
// Regressor columns and Price are forward-filled before incomplete rows are
// dropped. The target is not: a row whose next SPY open is unknown is
// dropped rather than given a carried-over target.
func (b *Builder) Build(spy *models.IndexSeries, others map[string]*models.IndexSeries) (*models.Table, error) {
	start := time.Now()
	n := spy.Len()
	if n == 0 {
		return nil, apperr.DataErrorf("target series is empty").
			WithParam("index", spy.Name).
			WithError(models.ErrInsufficientHistory)
	}
	if err := checkFinite(spy); err != nil {
		return nil, err
	}
	if b.alignment == domrepo.AlignDate && !spy.HasDates() {
		return nil, apperr.SchemaErrorf("date alignment needs a Date column").
			WithField("Date").
			WithParam("file", spy.Source).
			WithError(models.ErrMissingDates)
	}

	t := models.NewTable(n)
	for i, bar := range spy.Bars {
		t.Dates[i] = bar.Date
	}

	opens := spy.Opens()
	target := LeadDelta(opens)
	columns := map[string][]float64{
		models.ColSpy:     target,
		models.ColSpyLag1: Shift(target, 1),
		models.ColPrice:   append([]float64(nil), opens...),
	}

	for _, f := range Panel {
		s, ok := others[f.Name]
		if !ok || s == nil {
			return nil, apperr.DataErrorf("index series not loaded").WithParam("index", f.Name)
		}
		if err := checkFinite(s); err != nil {
			return nil, err
		}
		var delta []float64
		switch f.Kind {
		case Intraday:
			delta = Spread(s.Opens(), s.Closes())
		default:
			delta = LagDelta(s.Opens())
		}
		aligned, err := b.align(spy, s, delta)
		if err != nil {
			return nil, err
		}
		columns[f.Name] = aligned
	}

	for _, name := range Columns() {
		if err := t.SetColumn(name, columns[name]); err != nil {
			return nil, apperr.DataErrorf("assemble feature table").WithField(name).WithError(err)
		}
	}
	if b.l != nil {
		b.l.Debug("feature table missing values before cleaning", censusFields(t)...)
	}

	for _, name := range Columns() {
		if name == models.ColSpy {
			continue
		}
		col, _ := t.Column(name)
		ForwardFill(col)
		if err := t.SetColumn(name, col); err != nil {
			return nil, apperr.DataErrorf("forward-fill").WithField(name).WithError(err)
		}
	}
	clean := t.Filter(completeRows(t))

	if b.l != nil {
		b.l.Info("feature table built",
			applogger.String("alignment", string(b.alignment)),
			applogger.Int("input_rows", n),
			applogger.Int("rows", clean.Len()),
			applogger.Int("dropped", n-clean.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return clean, nil
}

// align maps a foreign series' per-row values onto SPY's rows.
func (b *Builder) align(spy, s *models.IndexSeries, values []float64) ([]float64, error) {
	n := spy.Len()
	out := make([]float64, n)

	if b.alignment != domrepo.AlignDate {
		for i := range out {
			if i < len(values) {
				out[i] = values[i]
			} else {
				out[i] = math.NaN()
			}
		}
		return out, nil
	}

	if !s.HasDates() {
		return nil, apperr.SchemaErrorf("date alignment needs a Date column").
			WithField("Date").
			WithParam("file", s.Source).
			WithError(models.ErrMissingDates)
	}
	byDay := make(map[time.Time]float64, len(values))
	for i, bar := range s.Bars {
		byDay[util.DayKey(bar.Date)] = values[i]
	}
	for i, bar := range spy.Bars {
		v, ok := byDay[util.DayKey(bar.Date)]
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out, nil
}

// checkFinite rejects infinite prices. NaN is a missing value and is allowed.
func checkFinite(s *models.IndexSeries) error {
	for i, bar := range s.Bars {
		for _, c := range [...]struct {
			name string
			v    float64
		}{{"Open", bar.Open}, {"Close", bar.Close}} {
			if math.IsInf(c.v, 0) {
				return apperr.DataErrorf("price is infinite").
					WithField(c.name).
					WithParam("index", s.Name).
					WithParam("file", s.Source).
					WithParam("row", i).
					WithError(models.ErrNonFinite)
			}
		}
	}
	return nil
}

func completeRows(t *models.Table) []bool {
	keep := make([]bool, t.Len())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range t.Names() {
		col, _ := t.Column(name)
		for i, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				keep[i] = false
			}
		}
	}
	return keep
}

func censusFields(t *models.Table) []applogger.Field {
	counts := t.MissingCounts()
	fields := make([]applogger.Field, 0, len(counts))
	for _, name := range t.Names() {
		fields = append(fields, applogger.Int(name, counts[name]))
	}
	return fields
}
