package models

import "time"

// Bar is one trading day of an index. Missing prices are NaN.
type Bar struct {
	Date  time.Time
	Open  float64
	Close float64
}

// IndexSeries is the daily history of one market index, oldest first.
type IndexSeries struct {
	Name   string
	Source string // file path or table the bars were read from
	Bars   []Bar
}

func (s *IndexSeries) Len() int { return len(s.Bars) }

// HasDates reports whether every bar carries a trading date.
func (s *IndexSeries) HasDates() bool {
	if len(s.Bars) == 0 {
		return false
	}
	for _, b := range s.Bars {
		if b.Date.IsZero() {
			return false
		}
	}
	return true
}

// Opens returns the Open prices in row order.
func (s *IndexSeries) Opens() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Open
	}
	return out
}

// Closes returns the Close prices in row order.
func (s *IndexSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}
