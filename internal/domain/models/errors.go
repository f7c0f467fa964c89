package models

import "errors"

var (
	ErrMissingColumn       = errors.New("missing column")
	ErrInvalidValue        = errors.New("invalid value")
	ErrMissingDates        = errors.New("series has no dates")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrNonFinite           = errors.New("non-finite value")
	ErrRankDeficient       = errors.New("design matrix is rank deficient")
	ErrDegreesOfFreedom    = errors.New("not enough degrees of freedom")
)
