package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func nan() float64 { return math.NaN() }

func assertSeries(t *testing.T, want, got []float64) {
	t.Helper()
	if !assert.Len(t, got, len(want)) {
		return
	}
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-12, "index %d", i)
	}
}

func TestLeadDelta(t *testing.T) {
	assertSeries(t, []float64{2, -1, nan()}, LeadDelta([]float64{10, 12, 11}))
	assert.Empty(t, LeadDelta(nil))
}

func TestLagDelta(t *testing.T) {
	assertSeries(t, []float64{nan(), 2, -1}, LagDelta([]float64{10, 12, 11}))
}

func TestSpread(t *testing.T) {
	assertSeries(t, []float64{1, -2}, Spread([]float64{10, 12}, []float64{11, 10}))
}

func TestShift(t *testing.T) {
	assertSeries(t, []float64{nan(), 1, 2}, Shift([]float64{1, 2, 3}, 1))
	assertSeries(t, []float64{nan(), nan(), 1}, Shift([]float64{1, 2, 3}, 2))
}

func TestForwardFill(t *testing.T) {
	x := []float64{nan(), 1, nan(), nan(), 4, nan()}
	ForwardFill(x)
	assertSeries(t, []float64{nan(), 1, 1, 1, 4, 4}, x)
}

func TestPanelOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"spy", "spy_lag1", "sp500", "nasdaq", "dji", "cac40", "daxi", "aord", "hsi", "nikkei", "Price"},
		Columns())
	assert.Equal(t,
		[]string{"spy_lag1", "sp500", "nasdaq", "dji", "cac40", "daxi", "aord", "nikkei", "hsi"},
		Regressors())
	assert.Len(t, SeriesNames(), 9)
	assert.Equal(t, "spy", SeriesNames()[0])
}
