package engine

import (
	"errors"
	"fmt"

	"github.com/ormasoftchile/cutter/pkg/schema"
)

// ErrNoPrompter is returned when interactive resolution is requested without
// a prompter.
var ErrNoPrompter = errors.New("interactive resolution requires a prompter")

// ErrMaxDepth is returned when a value nests deeper than the renderer allows.
var ErrMaxDepth = errors.New("render depth exceeded")

// UndefinedVariableError reports a template reference to a variable that is
// not in the environment. It aborts the whole run.
type UndefinedVariableError struct {
	Key  string // schema key being resolved
	Name string // undefined name referenced by the template
	Err  error
}

func (e *UndefinedVariableError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("undefined variable %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("unable to render variable %q: undefined variable %q", e.Key, e.Name)
}

func (e *UndefinedVariableError) Unwrap() error { return e.Err }

// MalformedKeyError reports a conditional key without exactly one `?`.
type MalformedKeyError struct {
	Key string
}

func (e *MalformedKeyError) Error() string {
	return fmt.Sprintf("malformed conditional key %q: want exactly one '?'", e.Key)
}

// GuardEvalError reports a guard expression that failed to evaluate. The
// variable is treated as not presented; the error is reported, not returned.
type GuardEvalError struct {
	Key  string
	Expr string
	Err  error
}

func (e *GuardEvalError) Error() string {
	return fmt.Sprintf("unable to evaluate guard of %q (%s): %v", e.Key, e.Expr, e.Err)
}

func (e *GuardEvalError) Unwrap() error { return e.Err }

// ConfigError reports a schema definition that cannot be resolved, such as a
// choice variable without options.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// TypeError reports a value of the wrong kind.
type TypeError struct {
	Key  string
	Want schema.Kind
	Got  schema.Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Key, e.Want, e.Got)
}

// MalformedInputError reports operator input for a structured variable that
// is not a JSON object. It is the one retryable failure: interactive callers
// ask again.
type MalformedInputError struct {
	Key    string
	Input  string
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
