package heimdall

import (
	"errors"

	"github.com/solheim-studio/heimdall/internal/coverage"
	"github.com/solheim-studio/heimdall/internal/script"
	"github.com/solheim-studio/heimdall/internal/session"
	"github.com/solheim-studio/heimdall/internal/transform"
)

var (
	// ErrEnvironmentClosed reports a call made after teardown began.
	ErrEnvironmentClosed = errors.New("environment closed")

	// ErrNotReady reports a render attempted before setup completed.
	ErrNotReady = errors.New("environment not ready")

	ErrInvalidRequest     = script.ErrInvalidRequest
	ErrExecutionTimeout   = session.ErrExecutionTimeout
	ErrSessionUnavailable = session.ErrSessionUnavailable
)

type CompileError = transform.CompileError

type ErrorDetail = transform.ErrorDetail

type SessionError = session.SessionError

type RemoteExecutionError = session.RemoteExecutionError

type MalformedCoverageError = coverage.MalformedCoverageError
