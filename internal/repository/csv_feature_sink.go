package repository

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"SpyReg/internal/domain/models"
	domrepo "SpyReg/internal/domain/repository"
	"SpyReg/pkg/apperr"
	applogger "SpyReg/pkg/logger"
	"SpyReg/pkg/util"
)

// CSVFeatureSink writes the feature table to a fixed path. The file is
// replaced atomically so a failed write leaves the previous file, or none.
type CSVFeatureSink struct {
	path string
	l    *applogger.Logger
}

func NewCSVFeatureSink(path string) *CSVFeatureSink {
	return &CSVFeatureSink{path: path}
}

// SetLogger injects a structured logger.
func (s *CSVFeatureSink) SetLogger(l *applogger.Logger) { s.l = l }

// Path returns the output file.
func (s *CSVFeatureSink) Path() string { return s.path }

func (s *CSVFeatureSink) Save(ctx context.Context, t *models.Table, columns []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	dates := make([]string, t.Len())
	for i := range dates {
		dates[i] = util.FormatDate(t.Dates[i])
	}
	cols := make([]series.Series, 0, len(columns)+1)
	cols = append(cols, series.New(dates, series.String, "Date"))
	for _, c := range columns {
		col, ok := t.Column(c)
		if !ok {
			return apperr.SchemaErrorf("feature table has no such column").
				WithField(c).
				WithError(models.ErrMissingColumn)
		}
		// Cells are preformatted so floats keep their shortest round-trip form.
		cells := make([]string, len(col))
		for i, v := range col {
			cells[i] = util.FormatFloat(v)
		}
		cols = append(cols, series.New(cells, series.String, c))
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return apperr.SchemaErrorf("build feature frame").WithError(df.Err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.IOError(dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".indicepanel-*.csv")
	if err != nil {
		return apperr.IOError(dir, err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperr.IOError(s.path, err)
	}

	if err := df.WriteCSV(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return apperr.IOError(s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return apperr.IOError(s.path, err)
	}

	if s.l != nil {
		s.l.Info("feature table saved",
			applogger.String("file", s.path),
			applogger.Int("rows", t.Len()),
			applogger.Int("columns", len(columns)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

var _ domrepo.FeatureSink = (*CSVFeatureSink)(nil)
