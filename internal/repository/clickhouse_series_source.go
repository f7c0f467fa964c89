package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"SpyReg/internal/domain/models"
	domrepo "SpyReg/internal/domain/repository"
	"SpyReg/pkg/apperr"
	applogger "SpyReg/pkg/logger"
)

// CHSeriesSource implements SeriesSource backed by a ClickHouse daily bars
// table. spec.Location is the symbol.
type CHSeriesSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSeriesSource(db *sql.DB, table string) *CHSeriesSource {
	return &CHSeriesSource{db: db, table: table}
}

// SetLogger injects a structured logger.
func (s *CHSeriesSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSeriesSource) Load(ctx context.Context, spec domrepo.IndexSpec) (*models.IndexSeries, error) {
	start := time.Now()
	const qtpl = `
        SELECT date, open, close
        FROM %s
        WHERE symbol = ?
        ORDER BY date ASC
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, spec.Location)
	if err != nil {
		s.logErr("clickhouse bars query error", spec, err)
		return nil, apperr.IOError(s.table, err).WithParam("symbol", spec.Location)
	}
	defer rows.Close()

	series := &models.IndexSeries{Name: spec.Name, Source: s.table + "/" + spec.Location}
	for rows.Next() {
		var (
			d      time.Time
			op, cl sql.NullFloat64
		)
		if err := rows.Scan(&d, &op, &cl); err != nil {
			s.logErr("clickhouse bars scan error", spec, err)
			return nil, apperr.SchemaErrorf("scan bar").
				WithParam("table", s.table).
				WithParam("symbol", spec.Location).
				WithError(err)
		}
		series.Bars = append(series.Bars, models.Bar{Date: d.UTC(), Open: nullToNaN(op), Close: nullToNaN(cl)})
	}
	if err := rows.Err(); err != nil {
		s.logErr("clickhouse bars rows error", spec, err)
		return nil, apperr.IOError(s.table, err).WithParam("symbol", spec.Location)
	}
	if series.Len() == 0 {
		return nil, apperr.DataErrorf("no bars for symbol").
			WithParam("table", s.table).
			WithParam("symbol", spec.Location).
			WithError(models.ErrInsufficientHistory)
	}

	if s.l != nil {
		s.l.Info("clickhouse series loaded",
			applogger.String("table", s.table),
			applogger.String("index", spec.Name),
			applogger.String("symbol", spec.Location),
			applogger.Int("rows", series.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}

func (s *CHSeriesSource) logErr(msg string, spec domrepo.IndexSpec, err error) {
	if s.l == nil {
		return
	}
	s.l.Error(msg,
		applogger.String("table", s.table),
		applogger.String("symbol", spec.Location),
		applogger.Error(err),
	)
}

func nullToNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

var _ domrepo.SeriesSource = (*CHSeriesSource)(nil)
