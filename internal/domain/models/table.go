package models

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Feature table columns.
const (
	ColSpy     = "spy"
	ColSpyLag1 = "spy_lag1"
	ColSP500   = "sp500"
	ColNasdaq  = "nasdaq"
	ColDJI     = "dji"
	ColCAC40   = "cac40"
	ColDAXI    = "daxi"
	ColAORD    = "aord"
	ColHSI     = "hsi"
	ColNikkei  = "nikkei"
	ColPrice   = "Price"
	ColYHat    = "yhat"
)

// Table is a feature frame indexed by trading day, backed by a gota
// DataFrame of float columns.
// Dates holds zero values when the source series had no dates.
// Pos holds the row position of each row in the SPY series it came from.
type Table struct {
	Dates []time.Time
	Pos   []int
	df    dataframe.DataFrame
}

// NewTable creates an empty table with n rows and no columns.
func NewTable(n int) *Table {
	t := &Table{
		Dates: make([]time.Time, n),
		Pos:   make([]int, n),
	}
	for i := range t.Pos {
		t.Pos[i] = i
	}
	return t
}

func (t *Table) Len() int { return len(t.Pos) }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.Len(), t.df.Ncol() }

// Names returns the column names in insertion order.
func (t *Table) Names() []string {
	if t.df.Ncol() == 0 {
		return []string{}
	}
	return t.df.Names()
}

// Frame returns the underlying DataFrame.
func (t *Table) Frame() dataframe.DataFrame { return t.df }

// Column returns a copy of a column.
func (t *Table) Column(name string) ([]float64, bool) {
	if !t.has(name) {
		return nil, false
	}
	return t.df.Col(name).Float(), true
}

// SetColumn adds a column, or replaces it in place if it already exists.
func (t *Table) SetColumn(name string, vals []float64) error {
	if len(vals) != t.Len() {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(vals), t.Len())
	}
	s := series.New(vals, series.Float, name)
	var df dataframe.DataFrame
	if t.df.Ncol() == 0 {
		df = dataframe.New(s)
	} else {
		df = t.df.Mutate(s)
	}
	if df.Err != nil {
		return fmt.Errorf("set column %q: %w", name, df.Err)
	}
	t.df = df
	return nil
}

// HasDates reports whether every row carries a trading date.
func (t *Table) HasDates() bool {
	if t.Len() == 0 {
		return false
	}
	for _, d := range t.Dates {
		if d.IsZero() {
			return false
		}
	}
	return true
}

// Slice copies rows [lo, hi) into a new table.
func (t *Table) Slice(lo, hi int) *Table {
	idx := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		idx = append(idx, i)
	}
	return t.subset(idx)
}

// Filter copies the rows whose keep flag is set into a new table.
func (t *Table) Filter(keep []bool) *Table {
	idx := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return t.subset(idx)
}

func (t *Table) subset(idx []int) *Table {
	out := &Table{
		Dates: make([]time.Time, len(idx)),
		Pos:   make([]int, len(idx)),
	}
	for j, i := range idx {
		out.Dates[j] = t.Dates[i]
		out.Pos[j] = t.Pos[i]
	}
	switch {
	case t.df.Ncol() == 0:
	case len(idx) == 0:
		cols := make([]series.Series, 0, t.df.Ncol())
		for _, name := range t.df.Names() {
			cols = append(cols, series.New([]float64{}, series.Float, name))
		}
		out.df = dataframe.New(cols...)
	default:
		out.df = t.df.Subset(idx)
	}
	return out
}

// MissingCounts returns the number of NaN cells per column.
func (t *Table) MissingCounts() map[string]int {
	names := t.Names()
	out := make(map[string]int, len(names))
	for _, name := range names {
		cnt := 0
		for _, v := range t.df.Col(name).Float() {
			if math.IsNaN(v) {
				cnt++
			}
		}
		out[name] = cnt
	}
	return out
}

func (t *Table) has(name string) bool {
	for _, n := range t.Names() {
		if n == name {
			return true
		}
	}
	return false
}
