package domain

import "errors"

var (
	// ErrInvalidInput marks a request rejected at the boundary.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownEnum marks an unrecognised enum string.
	ErrUnknownEnum = errors.New("unknown value")
	// ErrUnsupportedTaxYear is returned when no rules table ships for a year.
	ErrUnsupportedTaxYear = errors.New("unsupported tax year")
)
