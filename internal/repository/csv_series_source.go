package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"SpyReg/internal/domain/models"
	domrepo "SpyReg/internal/domain/repository"
	"SpyReg/pkg/apperr"
	applogger "SpyReg/pkg/logger"
	"SpyReg/pkg/util"
)

// missingCells are the spellings Yahoo and other exports use for an absent
// value. gota rewrites them to "NaN" on load.
var missingCells = []string{"", "null", "NULL", "NA", "N/A", "NaN", "nan"}

// CSVSeriesSource reads one index history per CSV file. The file needs a
// header with Open and Close columns; a Date column is used when present.
type CSVSeriesSource struct {
	l *applogger.Logger
}

func NewCSVSeriesSource() *CSVSeriesSource {
	return &CSVSeriesSource{}
}

// SetLogger injects a structured logger.
func (s *CSVSeriesSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CSVSeriesSource) Load(ctx context.Context, spec domrepo.IndexSpec) (*models.IndexSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	path := spec.Location

	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.IOError(path, err).WithParam("index", spec.Name)
	}
	defer f.Close()

	// Every column is read as text so malformed cells fail here instead of
	// silently becoming NaN.
	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingCells),
	)
	if df.Err != nil {
		if strings.Contains(df.Err.Error(), "empty DataFrame") {
			return nil, apperr.SchemaErrorf("empty file").WithParam("file", path).WithError(df.Err)
		}
		return nil, apperr.SchemaErrorf("malformed csv").WithParam("file", path).WithError(df.Err)
	}

	cols := mapColumns(df.Names())
	openName, ok := cols["open"]
	if !ok {
		return nil, missingColumn(path, "Open")
	}
	closeName, ok := cols["close"]
	if !ok {
		return nil, missingColumn(path, "Close")
	}
	opens := df.Col(openName).Records()
	closes := df.Col(closeName).Records()
	var dates []string
	if dateName, ok := cols["date"]; ok {
		dates = df.Col(dateName).Records()
	}

	out := &models.IndexSeries{Name: spec.Name, Source: path, Bars: make([]models.Bar, df.Nrow())}
	for i := range out.Bars {
		line := i + 2
		bar := &out.Bars[i]
		if bar.Open, err = parseCell(opens[i], path, "Open", line); err != nil {
			return nil, err
		}
		if bar.Close, err = parseCell(closes[i], path, "Close", line); err != nil {
			return nil, err
		}
		if dates != nil && !missingCell(dates[i]) {
			d, ok := util.ParseDate(dates[i])
			if !ok {
				return nil, apperr.SchemaErrorf("cannot parse date %q", dates[i]).
					WithField("Date").
					WithParam("file", path).
					WithParam("line", line).
					WithError(models.ErrInvalidValue)
			}
			bar.Date = d
		}
	}

	if s.l != nil {
		s.l.Info("csv series loaded",
			applogger.String("index", spec.Name),
			applogger.String("file", path),
			applogger.Int("rows", out.Len()),
			applogger.Bool("dates", out.HasDates()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func parseCell(cell, path, column string, line int) (float64, error) {
	v, ok := util.ParseFloatCell(cell)
	if !ok {
		return 0, apperr.SchemaErrorf("cannot parse %q", cell).
			WithField(column).
			WithParam("file", path).
			WithParam("line", line).
			WithError(models.ErrInvalidValue)
	}
	return v, nil
}

func missingCell(s string) bool {
	s = strings.TrimSpace(s)
	for _, m := range missingCells {
		if s == m {
			return true
		}
	}
	return false
}

func missingColumn(path, column string) error {
	return apperr.SchemaErrorf("required column not found").
		WithField(column).
		WithParam("file", path).
		WithError(fmt.Errorf("%w: %s", models.ErrMissingColumn, column))
}

// mapColumns maps normalized header names to the frame's column names.
func mapColumns(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(n, "\ufeff")))
		if _, dup := out[key]; !dup {
			out[key] = n
		}
	}
	return out
}

var _ domrepo.SeriesSource = (*CSVSeriesSource)(nil)
