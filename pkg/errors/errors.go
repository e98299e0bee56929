// Package errors provides the structured error types used across the
// aict command line tools. Errors carry stack traces via cockroachdb/errors
// and know how to attach themselves to zerolog events as structured fields.
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Domain error types
//
// ===========================================================================

// SourceFeatureError reports that the model configuration uses features
// derived from the reconstructed source position, which is not supported
// for this model family.
type SourceFeatureError struct {
	Features []string
}

func (e *SourceFeatureError) Error() string {
	return fmt.Sprintf(
		"aict: using source dependent features in the model is not supported (found: %s)",
		strings.Join(e.Features, ", "),
	)
}

// MarshalZerologObject adds the offending feature names to a zerolog event.
func (e *SourceFeatureError) MarshalZerologObject(event *zerolog.Event) {
	event.Strs("features", e.Features).
		Str("type", "SourceFeatureError")
}

// NewSourceFeatureError creates a SourceFeatureError with a stack trace.
func NewSourceFeatureError(features []string) error {
	err := &SourceFeatureError{Features: features}
	return errors.WithStack(err)
}

// ColumnExistsError reports that an output column already exists in the
// data file and the user declined to overwrite it.
type ColumnExistsError struct {
	Column string
	Path   string
}

func (e *ColumnExistsError) Error() string {
	return fmt.Sprintf("aict: column %q already exists in %q and overwriting was declined", e.Column, e.Path)
}

// MarshalZerologObject adds the column and file path to a zerolog event.
func (e *ColumnExistsError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Str("path", e.Path).
		Str("type", "ColumnExistsError")
}

// NewColumnExistsError creates a ColumnExistsError with a stack trace.
func NewColumnExistsError(column, path string) error {
	err := &ColumnExistsError{Column: column, Path: path}
	return errors.WithStack(err)
}

// NotFittedError reports a Predict call on an estimator that has not been
// fitted yet.
type NotFittedError struct {
	Estimator string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("aict: %s: estimator is not fitted yet. Call Fit() before using %s()", e.Estimator, e.Method)
}

// MarshalZerologObject adds the estimator and method to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("estimator", e.Estimator).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(estimator, method string) error {
	err := &NotFittedError{Estimator: estimator, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports a mismatch between expected and actual data
// dimensions.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("aict: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the dimension details to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError reports an invalid configuration or parameter value.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("aict: validation failed for %q: %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the parameter details to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error values
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no rows.
	ErrEmptyData = New("empty data")
)
