package session

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/solheim-studio/heimdall/internal/types"
)

type fakeSession struct {
	scripts    []string
	args       []any
	result     any
	err        error
	terminated bool
}

func (f *fakeSession) ExecuteAsync(ctx context.Context, script string, arg any) (any, error) {
	f.scripts = append(f.scripts, script)
	f.args = append(f.args, arg)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSession) Terminate() error {
	f.terminated = true
	return nil
}

func TestExecuteDecodesCompletionPayload(t *testing.T) {
	sess := &fakeSession{
		result: map[string]any{
			"containerId": "hd-123",
			"coverage": map[string]any{
				"src/foo.js": map[string]any{
					"path": "src/foo.js",
					"s":    map[string]any{"0": float64(3)},
				},
			},
		},
	}

	res, err := Execute(context.Background(), sess, "done({});")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Container != "hd-123" {
		t.Errorf("container = %q", res.Container)
	}
	fc, ok := res.Coverage["src/foo.js"]
	if !ok {
		t.Fatal("coverage entry missing")
	}
	if fc.S["0"] != 3 {
		t.Errorf("coverage counters = %v", fc.S)
	}
}

func TestExecuteSubmitsWrapperWithBodyAsData(t *testing.T) {
	sess := &fakeSession{result: map[string]any{"containerId": "hd-1"}}

	compiled := "const x = 1; done({ containerId: \"hd-1\" });"
	if _, err := Execute(context.Background(), sess, compiled); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(sess.scripts) != 1 {
		t.Fatalf("ExecuteAsync calls = %d, want 1", len(sess.scripts))
	}
	if !strings.Contains(sess.scripts[0], "AsyncFunction") {
		t.Error("wrapper does not construct an async callable")
	}
	if !strings.Contains(sess.scripts[0], "\"done\"") {
		t.Error("wrapper does not wire the completion callback")
	}
	if sess.args[0] != compiled {
		t.Error("compiled body not passed as data")
	}
}

func TestExecuteNullCoverage(t *testing.T) {
	sess := &fakeSession{result: map[string]any{"containerId": "hd-2", "coverage": nil}}

	res, err := Execute(context.Background(), sess, "x")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(res.Coverage) != 0 {
		t.Errorf("expected empty snapshot, got %v", res.Coverage)
	}
}

func TestExecuteRemoteThrow(t *testing.T) {
	sess := &fakeSession{
		result: map[string]any{
			"error": map[string]any{"message": "Foo is not defined", "stack": "ReferenceError: ..."},
		},
	}

	_, err := Execute(context.Background(), sess, "x")
	var remote *RemoteExecutionError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v, want *RemoteExecutionError", err)
	}
	if remote.Message != "Foo is not defined" {
		t.Errorf("message = %q", remote.Message)
	}
}

func TestExecuteDriverFailure(t *testing.T) {
	sess := &fakeSession{err: errors.New("pipe closed")}

	_, err := Execute(context.Background(), sess, "x")
	var se *SessionError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SessionError", err)
	}
}

func TestExecuteDeadline(t *testing.T) {
	sess := &fakeSession{err: context.DeadlineExceeded}

	_, err := Execute(context.Background(), sess, "x")
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("error = %v, want ErrExecutionTimeout", err)
	}
}

func TestExecuteMissingContainerReference(t *testing.T) {
	sess := &fakeSession{result: map[string]any{"coverage": nil}}

	_, err := Execute(context.Background(), sess, "x")
	var se *SessionError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SessionError", err)
	}
}

func TestExecuteNilSession(t *testing.T) {
	_, err := Execute(context.Background(), nil, "x")
	if !errors.Is(err, ErrSessionUnavailable) {
		t.Fatalf("error = %v, want ErrSessionUnavailable", err)
	}
}

func TestDispose(t *testing.T) {
	sess := &fakeSession{result: 2}

	n, err := Dispose(context.Background(), sess, []types.ContainerRef{"hd-a", "hd-b", "hd-gone"})
	if err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
	if got, want := sess.args[0], []string{"hd-a", "hd-b", "hd-gone"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ids passed = %v, want %v", got, want)
	}
}

func TestDisposeFloatCount(t *testing.T) {
	sess := &fakeSession{result: float64(1)}

	n, err := Dispose(context.Background(), sess, []types.ContainerRef{"hd-a"})
	if err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}
	if n != 1 {
		t.Errorf("removed = %d, want 1", n)
	}
}

func TestDisposeNothing(t *testing.T) {
	sess := &fakeSession{}
	if _, err := Dispose(context.Background(), sess, nil); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}
	if len(sess.scripts) != 0 {
		t.Error("empty disposal should not reach the session")
	}
}

func TestPing(t *testing.T) {
	sess := &fakeSession{result: true}
	if err := Ping(context.Background(), sess); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	broken := &fakeSession{err: errors.New("gone")}
	if err := Ping(context.Background(), broken); err == nil {
		t.Error("expected ping failure")
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.RecordExecution(100*time.Millisecond, nil)
	m.RecordExecution(300*time.Millisecond, errors.New("boom"))
	m.RecordExecution(200*time.Millisecond, context.DeadlineExceeded)
	m.RecordExecution(200*time.Millisecond, &SessionError{Op: "execute", Err: ErrExecutionTimeout})
	m.RecordMerge()

	snap := m.Snapshot()
	if snap.Executions != 4 {
		t.Errorf("Executions = %d", snap.Executions)
	}
	if snap.Failures != 3 {
		t.Errorf("Failures = %d", snap.Failures)
	}
	if snap.Timeouts != 1 {
		t.Errorf("Timeouts = %d", snap.Timeouts)
	}
	if snap.Merges != 1 {
		t.Errorf("Merges = %d", snap.Merges)
	}
	if snap.AverageLatency != 200*time.Millisecond {
		t.Errorf("AverageLatency = %s", snap.AverageLatency)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordExecution(time.Second, nil)
	m.RecordMerge()
	if snap := m.Snapshot(); snap.Executions != 0 {
		t.Errorf("nil metrics snapshot = %+v", snap)
	}
}
