package cli

import (
	"errors"
	"fmt"

	"github.com/mickamy/databinge/orm"
)

// ExitCode is the process status a command ends with.
type ExitCode int

const (
	ExitOK      ExitCode = 0
	ExitFailure ExitCode = 1 // a lookup matched nothing, or a statement failed
	ExitUsage   ExitCode = 2 // bad arguments, models file or connection
)

type exitError struct {
	code ExitCode
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// usageError formats an ExitUsage error; %w verbs wrap as in fmt.Errorf.
func usageError(format string, args ...any) error {
	return &exitError{code: ExitUsage, err: fmt.Errorf(format, args...)}
}

func notFound(m *orm.Model, id any) error {
	return &exitError{code: ExitFailure, err: fmt.Errorf("no %s with %s %v", m.Name(), m.PrimaryKey(), id)}
}

// Code maps the error a command returned to its exit status. Errors not
// raised by this package exit with ExitFailure.
func Code(err error) ExitCode {
	if err == nil {
		return ExitOK
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitFailure
}
