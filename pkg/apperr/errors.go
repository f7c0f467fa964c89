package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error classes of a pipeline run. Every class is fatal.
const (
	CodeIO     = "ERR_IO"
	CodeSchema = "ERR_SCHEMA"
	CodeData   = "ERR_DATA"
	CodeDOF    = "ERR_DOF"
)

// AppError is a classified pipeline failure with diagnostic context.
type AppError struct {
	Code    string
	Message string
	Field   string
	Params  map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Field != "" {
		fmt.Fprintf(&b, " [column=%s]", e.Field)
	}
	if len(e.Params) > 0 {
		keys := make([]string, 0, len(e.Params))
		for k := range e.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Params[k])
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error.
func New(code, field, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Params:  make(map[string]interface{}),
	}
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithField sets the offending column.
func (e *AppError) WithField(field string) *AppError {
	e.Field = field
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// IOError creates an error for an unreadable or unwritable file.
func IOError(path string, err error) *AppError {
	return New(CodeIO, "", "file access failed").WithParam("file", path).WithError(err)
}

// SchemaErrorf creates an error for a malformed input.
func SchemaErrorf(format string, a ...interface{}) *AppError {
	return New(CodeSchema, "", fmt.Sprintf(format, a...))
}

// DataErrorf creates an error for data the model cannot use.
func DataErrorf(format string, a ...interface{}) *AppError {
	return New(CodeData, "", fmt.Sprintf(format, a...))
}

// DOFErrorf creates a degrees-of-freedom error.
func DOFErrorf(format string, a ...interface{}) *AppError {
	return New(CodeDOF, "", fmt.Sprintf(format, a...))
}

// CodeOf returns the class of the first AppError in err's chain, or "" if none.
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
