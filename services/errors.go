package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyItems       = errors.New("products key not presented, null or empty list")
	ErrUnknownProduct   = errors.New("unknown product")
	ErrDuplicateProduct = errors.New("product listed more than once")
	ErrNotCandidate     = errors.New("restaurant cannot fulfil every item of the order")
	ErrStatusBackwards  = errors.New("order status can only move forward")
	ErrRestaurantInUse  = errors.New("restaurant has orders assigned")
)

// ValidationError rejects input before anything is written.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func invalidf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Err: fmt.Errorf(format, args...)}
}
