package service

import (
	"errors"
	"fmt"
)

var (
	ErrMissingParameter   = errors.New("missing required parameter")
	ErrTeacherNotFound    = errors.New("teacher not found")
	ErrInvalidChartType   = errors.New("invalid chart type")
	ErrInvalidDateFilter  = errors.New("invalid date filter")
	ErrMalformedDateRange = errors.New("malformed date range")
	ErrStorageFailure     = errors.New("storage failure")

	// ErrNoResponses is reported when a teacher exists but has no responses.
	// It matches ErrTeacherNotFound under errors.Is.
	ErrNoResponses = fmt.Errorf("%w: no responses recorded", ErrTeacherNotFound)
)

// ParamError ties a validation failure to the request parameter that caused it.
type ParamError struct {
	Param string
	Value string
	Err   error
}

func (e *ParamError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Err, e.Param)
	}
	return fmt.Sprintf("%s: %s=%q", e.Err, e.Param, e.Value)
}

func (e *ParamError) Unwrap() error { return e.Err }

func paramError(param, value string, err error) error {
	return &ParamError{Param: param, Value: value, Err: err}
}
