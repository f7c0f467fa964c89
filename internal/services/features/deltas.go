package features

import "math"

// LeadDelta returns x[i+1] - x[i]. The last element is NaN.
func LeadDelta(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if i+1 >= len(x) {
			out[i] = math.NaN()
			continue
		}
		out[i] = x[i+1] - x[i]
	}
	return out
}

// LagDelta returns x[i] - x[i-1]. The first element is NaN.
func LagDelta(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = x[i] - x[i-1]
	}
	return out
}

// Spread returns b[i] - a[i], the intraday move when a is Open and b is Close.
func Spread(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = b[i] - a[i]
	}
	return out
}

// Shift moves x down by k rows, filling the head with NaN.
func Shift(x []float64, k int) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if i < k {
			out[i] = math.NaN()
			continue
		}
		out[i] = x[i-k]
	}
	return out
}

// ForwardFill replaces each NaN with the last non-NaN value above it, in
// place. Leading NaNs are left as is.
func ForwardFill(x []float64) {
	last := math.NaN()
	for i, v := range x {
		if math.IsNaN(v) {
			x[i] = last
			continue
		}
		last = v
	}
}
