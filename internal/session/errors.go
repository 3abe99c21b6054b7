package session

import (
	"errors"
	"fmt"
)

var (
	ErrSessionUnavailable = errors.New("remote session unavailable")
	ErrExecutionTimeout   = errors.New("remote execution timed out")
)

// SessionError wraps driver and transport failures between the host and
// the remote runtime.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// RemoteExecutionError reports a script that threw inside the remote
// runtime before signalling completion.
type RemoteExecutionError struct {
	Message string
	Stack   string
}

func (e *RemoteExecutionError) Error() string {
	return fmt.Sprintf("remote execution failed: %s", e.Message)
}
