package main

import (
	"errors"

	"github.com/glennajones/gummy-bear/modules/layup/scheduling"
	"github.com/glennajones/gummy-bear/modules/layup/services"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitDB         = 4
	exitAbandoned  = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// schedulerCode classifies an error returned by the scheduler service.
func schedulerCode(err error) int {
	switch {
	case errors.Is(err, services.ErrRunAbandoned):
		return exitAbandoned
	case errors.Is(err, scheduling.ErrEmptyBacklog),
		errors.Is(err, scheduling.ErrEmptyHorizon),
		errors.Is(err, scheduling.ErrNoCatalog),
		errors.Is(err, scheduling.ErrInvalidPolicy):
		return exitValidation
	default:
		return exitDB
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}
