package session

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/solheim-studio/heimdall/internal/coverage"
	"github.com/solheim-studio/heimdall/internal/types"
)

// The wrapper receives the compiled script body as data, builds an async
// callable from it inside the remote runtime, and settles only when the
// body invokes its "done" callback (or throws first).
//
//go:embed wrapper.js
var asyncWrapper string

const pingScript = "() => true"

type ExecutionResult struct {
	Container types.ContainerRef
	Coverage  coverage.Snapshot
}

type executionPayload struct {
	ContainerID string            `json:"containerId"`
	Coverage    coverage.Snapshot `json:"coverage"`
	Error       *struct {
		Message string `json:"message"`
		Stack   string `json:"stack"`
	} `json:"error"`
}

// Ping confirms the session evaluates scripts at all.
func Ping(ctx context.Context, sess Session) error {
	if _, err := sess.ExecuteAsync(ctx, pingScript, nil); err != nil {
		return &SessionError{Op: "ping", Err: err}
	}
	return nil
}

// Execute runs one compiled script in the remote runtime and blocks until
// its completion callback fires, the script throws, or ctx expires.
func Execute(ctx context.Context, sess Session, compiled string) (ExecutionResult, error) {
	if sess == nil {
		return ExecutionResult{}, &SessionError{Op: "execute", Err: ErrSessionUnavailable}
	}

	raw, err := sess.ExecuteAsync(ctx, asyncWrapper, compiled)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ExecutionResult{}, fmt.Errorf("remote execution: %w", ErrExecutionTimeout)
		}
		return ExecutionResult{}, &SessionError{Op: "execute", Err: err}
	}

	return decodePayload(raw)
}

func decodePayload(raw any) (ExecutionResult, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return ExecutionResult{}, &SessionError{Op: "decode", Err: err}
	}

	var payload executionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ExecutionResult{}, &SessionError{Op: "decode", Err: err}
	}

	if payload.Error != nil {
		return ExecutionResult{}, &RemoteExecutionError{
			Message: payload.Error.Message,
			Stack:   payload.Error.Stack,
		}
	}
	if payload.ContainerID == "" {
		return ExecutionResult{}, &SessionError{Op: "decode", Err: errors.New("completion payload missing container reference")}
	}

	return ExecutionResult{
		Container: types.ContainerRef(payload.ContainerID),
		Coverage:  payload.Coverage,
	}, nil
}

const disposeScript = `(ids) => {
	let removed = 0;
	for (const id of ids || []) {
		const el = document.getElementById(id);
		if (el) {
			el.remove();
			removed += 1;
		}
	}
	return removed;
}`

// Dispose removes rendered container nodes from the page. Unknown ids are
// ignored. It reports how many nodes were actually removed.
func Dispose(ctx context.Context, sess Session, ids []types.ContainerRef) (int, error) {
	if sess == nil {
		return 0, &SessionError{Op: "dispose", Err: ErrSessionUnavailable}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = string(id)
	}

	raw, err := sess.ExecuteAsync(ctx, disposeScript, strs)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, fmt.Errorf("container disposal: %w", ErrExecutionTimeout)
		}
		return 0, &SessionError{Op: "dispose", Err: err}
	}

	switch n := raw.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	}
	return 0, nil
}
