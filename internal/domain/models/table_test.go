package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeRows(t *testing.T) *Table {
	t.Helper()
	tb := NewTable(3)
	for i := range tb.Dates {
		tb.Dates[i] = time.Date(2010, 1, 4+i, 0, 0, 0, 0, time.UTC)
	}
	require.NoError(t, tb.SetColumn(ColSpy, []float64{1, 2, 3}))
	require.NoError(t, tb.SetColumn(ColDAXI, []float64{10, math.NaN(), 30}))
	return tb
}

func TestTableSetColumn(t *testing.T) {
	tb := threeRows(t)
	assert.Equal(t, []string{ColSpy, ColDAXI}, tb.Names())

	require.NoError(t, tb.SetColumn(ColSpy, []float64{4, 5, 6}))
	assert.Equal(t, []string{ColSpy, ColDAXI}, tb.Names(), "replacing keeps the column order")
	col, ok := tb.Column(ColSpy)
	require.True(t, ok)
	assert.Equal(t, []float64{4, 5, 6}, col)

	assert.Error(t, tb.SetColumn(ColHSI, []float64{1, 2}))
	rows, cols := tb.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
}

func TestTableColumnIsCopy(t *testing.T) {
	tb := threeRows(t)
	col, ok := tb.Column(ColSpy)
	require.True(t, ok)
	col[0] = 99

	again, _ := tb.Column(ColSpy)
	assert.Equal(t, 1.0, again[0])

	_, ok = tb.Column(ColHSI)
	assert.False(t, ok)
}

func TestTableSliceAndFilter(t *testing.T) {
	tb := threeRows(t)

	s := tb.Slice(1, 3)
	assert.Equal(t, []int{1, 2}, s.Pos)
	assert.Equal(t, tb.Dates[1:], s.Dates)
	spy, _ := s.Column(ColSpy)
	assert.Equal(t, []float64{2, 3}, spy)

	f := tb.Filter([]bool{true, false, true})
	assert.Equal(t, []int{0, 2}, f.Pos)
	daxi, _ := f.Column(ColDAXI)
	assert.Equal(t, []float64{10, 30}, daxi)

	empty := tb.Filter([]bool{false, false, false})
	rows, cols := empty.Shape()
	assert.Equal(t, 0, rows)
	assert.Equal(t, 2, cols)
	assert.False(t, empty.HasDates())
}

func TestTableMissingCounts(t *testing.T) {
	tb := threeRows(t)
	assert.Equal(t, map[string]int{ColSpy: 0, ColDAXI: 1}, tb.MissingCounts())
	assert.True(t, tb.HasDates())

	bare := NewTable(2)
	assert.Empty(t, bare.Names())
	assert.Empty(t, bare.MissingCounts())
	assert.False(t, bare.HasDates())
}
