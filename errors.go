package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

type errorKind int

const (
	kindUnknown errorKind = iota
	kindConfiguration
	kindNetwork
	kindJob
	kindTimeout
	kindDownload
)

func (k errorKind) String() string {
	switch k {
	case kindConfiguration:
		return "configuration error"
	case kindNetwork:
		return "network error"
	case kindJob:
		return "job error"
	case kindTimeout:
		return "timeout error"
	case kindDownload:
		return "download error"
	default:
		return "error"
	}
}

type workflowError struct {
	kind errorKind
	err  error
}

func (e *workflowError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.err)
}

func (e *workflowError) Unwrap() error { return e.err }

func (e *workflowError) Cause() error { return e.err }

func configurationError(err error) error { return &workflowError{kind: kindConfiguration, err: err} }

func networkError(err error) error { return &workflowError{kind: kindNetwork, err: err} }

func jobError(err error) error { return &workflowError{kind: kindJob, err: err} }

func timeoutError(err error) error { return &workflowError{kind: kindTimeout, err: err} }

func downloadError(err error) error { return &workflowError{kind: kindDownload, err: err} }

func kindOf(err error) errorKind {
	var werr *workflowError
	if errors.As(err, &werr) {
		return werr.kind
	}
	return kindUnknown
}

const (
	exitOK            = 0
	exitConfiguration = 1
	exitNetwork       = 2
	exitJob           = 3
	exitTimeout       = 4
	exitDownload      = 5
	exitInterrupted   = 130
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch kindOf(err) {
	case kindNetwork:
		return exitNetwork
	case kindJob:
		return exitJob
	case kindTimeout:
		return exitTimeout
	case kindDownload:
		return exitDownload
	default:
		return exitConfiguration
	}
}
