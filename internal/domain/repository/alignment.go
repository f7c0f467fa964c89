package repository

// Alignment selects how index series are matched to SPY trading days.
type Alignment string

const (
	AlignPositional Alignment = "positional"
	AlignDate       Alignment = "date"
)

// IsValidAlignment returns true if a is a supported alignment.
func IsValidAlignment(a Alignment) bool {
	switch a {
	case AlignPositional, AlignDate:
		return true
	default:
		return false
	}
}

// DefaultAlignment returns the default alignment.
func DefaultAlignment() Alignment { return AlignPositional }

// NormalizeAlignment converts a raw string to a valid alignment (or default).
func NormalizeAlignment(s string) Alignment {
	if s == "" {
		return DefaultAlignment()
	}
	a := Alignment(s)
	if IsValidAlignment(a) {
		return a
	}
	return DefaultAlignment()
}
