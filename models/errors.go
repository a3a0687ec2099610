package models

import (
	"errors"
	"fmt"
)

// Error codes for the four failure classes a run can hit.
const (
	ErrCodeNetwork    = "NETWORK_ERROR"
	ErrCodeParse      = "PARSE_ERROR"
	ErrCodeMalformed  = "MALFORMED_RECORD"
	ErrCodeEmptyInput = "EMPTY_INPUT"
)

// PipelineError is the internal error type carrying an error code and the
// constituency it concerns. It supports error wrapping via Unwrap.
type PipelineError struct {
	Code    string
	ONSID   string
	URL     string
	Message string
	Err     error // wrapped original error
}

func (e *PipelineError) Error() string {
	msg := e.Code
	if e.ONSID != "" {
		msg += " [" + e.ONSID + "]"
	}
	if e.URL != "" {
		msg += " " + e.URL
	}
	msg += ": " + e.Message
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewError creates a PipelineError that is not tied to a constituency.
func NewError(code, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Message: message, Err: err}
}

// Malformed reports a record that passed extraction but breaks a record invariant.
func Malformed(onsID, format string, args ...any) *PipelineError {
	return &PipelineError{Code: ErrCodeMalformed, ONSID: onsID, Message: fmt.Sprintf(format, args...)}
}

// ParseFailure reports source markup that did not match the expected structure.
func ParseFailure(link ConstituencyLink, format string, args ...any) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeParse,
		ONSID:   link.ONSID,
		URL:     link.URL,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf returns the code of the first PipelineError in err's chain, or "".
func CodeOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// Failure is one constituency that was left out of the table.
type Failure struct {
	ONSID   string `yaml:"ons_id"`
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Code    string `yaml:"code"`
	Message string `yaml:"message"`
}

// NewFailure describes why link could not be turned into a row.
func NewFailure(link ConstituencyLink, err error) Failure {
	code := CodeOf(err)
	if code == "" {
		code = ErrCodeNetwork
	}
	return Failure{
		ONSID:   link.ONSID,
		Name:    link.Name,
		URL:     link.URL,
		Code:    code,
		Message: err.Error(),
	}
}
