package heimdall

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solheim-studio/heimdall/internal/adapters/fs"
	"github.com/solheim-studio/heimdall/internal/adapters/playwright"
	"github.com/solheim-studio/heimdall/internal/config"
	"github.com/solheim-studio/heimdall/internal/coverage"
	"github.com/solheim-studio/heimdall/internal/report"
	"github.com/solheim-studio/heimdall/internal/script"
	"github.com/solheim-studio/heimdall/internal/session"
	"github.com/solheim-studio/heimdall/internal/transform"
	"github.com/solheim-studio/heimdall/internal/types"
)

type RenderRequest = types.RenderRequest

type RequestKind = types.RequestKind

type ContainerRef = types.ContainerRef

type Runtime = types.Runtime

type ReportFormat = types.ReportFormat

type CoverageMap = coverage.Map

type FileCoverage = coverage.FileCoverage

type Session = session.Session

type SessionFactory = session.Factory

type Compiler = transform.Compiler

type ReportSink = report.Sink

type MetricsSnapshot = session.MetricsSnapshot

const (
	KindAuto    = types.KindAuto
	KindElement = types.KindElement
	KindThunk   = types.KindThunk
)

const (
	FormatJSON = types.FormatJSON
	FormatText = types.FormatText
	FormatLCOV = types.FormatLCOV
)

type State int

const (
	StateUninitialized State = iota
	StateSettingUp
	StateReady
	StateTearingDown
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSettingUp:
		return "setting-up"
	case StateReady:
		return "ready"
	case StateTearingDown:
		return "tearing-down"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Env drives one remote render session and accumulates coverage across
// executions. Renders are serialized so merges observe a stable map; all
// methods are safe for concurrent use.
type Env struct {
	mu    sync.Mutex
	state State

	compiler transform.Compiler
	factory  session.Factory
	sess     session.Session
	injected bool
	runtime  types.Runtime
	baseURL  string

	execTimeout time.Duration
	timeoutSet  bool

	formats    []types.ReportFormat
	formatsSet bool
	sink       report.Sink
	sinkSet    bool

	logger *slog.Logger

	coverage   *coverage.Map
	metrics    *session.Metrics
	containers []types.ContainerRef

	ownsFactory bool
}

type Option func(*Env)

func New(opts ...Option) *Env {
	e := &Env{
		compiler:    transform.NewESBuild(transform.DefaultDialect()),
		runtime:     types.DefaultRuntime(),
		execTimeout: 30 * time.Second,
		formats:     []types.ReportFormat{types.FormatJSON, types.FormatText},
		logger:      slog.Default(),
		coverage:    coverage.NewMap(),
		metrics:     session.NewMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sink == nil {
		e.sink = report.NewDirSink(fs.NewOSFileSystem(), "coverage")
	}
	return e
}

func WithSessionFactory(factory SessionFactory) Option {
	return func(e *Env) { e.factory = factory }
}

// WithSession injects an already open session. Setup skips the factory;
// Teardown still terminates the session.
func WithSession(sess Session) Option {
	return func(e *Env) {
		e.sess = sess
		e.injected = true
	}
}

func WithCompiler(compiler Compiler) Option {
	return func(e *Env) { e.compiler = compiler }
}

func WithRuntime(rt Runtime) Option {
	return func(e *Env) { e.runtime = rt }
}

func WithBaseURL(url string) Option {
	return func(e *Env) { e.baseURL = url }
}

func WithExecTimeout(d time.Duration) Option {
	return func(e *Env) {
		e.execTimeout = d
		e.timeoutSet = true
	}
}

func WithFormats(formats ...ReportFormat) Option {
	return func(e *Env) {
		e.formats = formats
		e.formatsSet = true
	}
}

func WithReportSink(sink ReportSink) Option {
	return func(e *Env) {
		e.sink = sink
		e.sinkSet = true
	}
}

func WithReportDir(dir string) Option {
	return func(e *Env) {
		e.sink = report.NewDirSink(fs.NewOSFileSystem(), dir)
		e.sinkSet = true
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Env) { e.logger = logger }
}

// Setup opens the remote session and verifies it evaluates scripts. It is
// idempotent while the environment is ready and fails once teardown began.
// A failed setup returns the environment to its uninitialized state.
func (e *Env) Setup(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateReady:
		return nil
	case StateTearingDown, StateClosed:
		return ErrEnvironmentClosed
	}

	e.state = StateSettingUp

	if err := e.connect(ctx); err != nil {
		e.state = StateUninitialized
		return err
	}

	if err := session.Ping(ctx, e.sess); err != nil {
		e.disconnect()
		e.state = StateUninitialized
		return err
	}

	e.state = StateReady
	e.logger.Debug("environment ready", "base_url", e.baseURL)
	return nil
}

func (e *Env) connect(ctx context.Context) error {
	if e.sess != nil {
		return nil
	}

	if e.factory == nil {
		cfg, err := config.FromEnv(fs.NewOSFileSystem())
		if err != nil {
			return err
		}
		if e.baseURL == "" {
			e.baseURL = cfg.BaseURL
		}
		if !e.timeoutSet {
			e.execTimeout = cfg.ExecTimeout
		}
		if !e.formatsSet {
			e.formats = cfg.Formats
		}
		if !e.sinkSet {
			e.sink = report.NewDirSink(fs.NewOSFileSystem(), cfg.ReportDir)
		}

		driver, err := playwright.NewDriver(playwright.Options{
			Headful:        cfg.Headful,
			ExecutablePath: cfg.BrowserPath,
		})
		if err != nil {
			return err
		}
		e.factory = driver
		e.ownsFactory = true
	}

	sess, err := e.factory.NewSession(ctx, session.Config{BaseURL: e.baseURL})
	if err != nil {
		return err
	}
	e.sess = sess
	return nil
}

// disconnect drops a session the environment opened itself. Injected
// sessions stay attached so a failed setup can be retried against them.
func (e *Env) disconnect() {
	if e.sess != nil && !e.injected {
		_ = e.sess.Terminate()
		e.sess = nil
	}
	if e.ownsFactory && e.factory != nil {
		_ = e.factory.Close()
		e.factory = nil
		e.ownsFactory = false
	}
}

// Render synthesizes a script for the request, compiles it, executes it in
// the remote session, and folds the execution's coverage into the map. The
// returned reference identifies the container node the markup rendered
// into.
func (e *Env) Render(ctx context.Context, req RenderRequest) (ContainerRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireReady(); err != nil {
		return "", err
	}

	id := "hd-" + uuid.New().String()

	body, err := script.Synthesize(script.Request{
		Code:        req.Code,
		Imports:     req.Imports,
		Kind:        req.Kind,
		ContainerID: id,
		Runtime:     e.runtime,
	})
	if err != nil {
		return "", err
	}

	compiled, err := e.compiler.Compile(body)
	if err != nil {
		return "", err
	}

	if e.execTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.execTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := session.Execute(ctx, e.sess, compiled)
	e.metrics.RecordExecution(time.Since(start), err)
	if err != nil {
		return "", err
	}

	if len(res.Coverage) > 0 {
		if err := e.coverage.Merge(res.Coverage); err != nil {
			return "", err
		}
		e.metrics.RecordMerge()
	}

	e.containers = append(e.containers, res.Container)
	e.logger.Debug("render complete",
		"container", res.Container,
		"files", len(res.Coverage),
		"duration", time.Since(start))

	return res.Container, nil
}

// RenderExpr renders a bare markup expression with the given imports in
// scope.
func (e *Env) RenderExpr(ctx context.Context, code string, imports ...string) (ContainerRef, error) {
	return e.Render(ctx, RenderRequest{Code: code, Imports: imports})
}

// Containers lists the live container references in render order.
func (e *Env) Containers() []ContainerRef {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]ContainerRef, len(e.containers))
	copy(out, e.containers)
	return out
}

// DisposeContainers removes rendered containers from the remote page and
// stops tracking them. With no arguments every tracked container goes.
// References the page no longer knows are ignored.
func (e *Env) DisposeContainers(ctx context.Context, ids ...ContainerRef) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireReady(); err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		ids = e.containers
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if e.execTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.execTimeout)
		defer cancel()
	}

	removed, err := session.Dispose(ctx, e.sess, ids)
	if err != nil {
		return 0, err
	}

	drop := make(map[types.ContainerRef]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := e.containers[:0]
	for _, id := range e.containers {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	e.containers = kept

	e.logger.Debug("containers disposed", "requested", len(ids), "removed", removed)
	return removed, nil
}

func (e *Env) requireReady() error {
	switch e.state {
	case StateTearingDown, StateClosed:
		return ErrEnvironmentClosed
	case StateUninitialized, StateSettingUp:
		return ErrNotReady
	}
	return nil
}

// Report renders the accumulated coverage in one format without touching
// the configured sink.
func (e *Env) Report(format ReportFormat) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coverage.Render(format)
}

// Coverage exposes the accumulated map. Callers must not mutate it while
// renders are in flight.
func (e *Env) Coverage() *CoverageMap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coverage
}

func (e *Env) Metrics() MetricsSnapshot {
	return e.metrics.Snapshot()
}

func (e *Env) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Teardown writes the configured reports, releases the session, and closes
// the environment. It is idempotent. The first failure is reported but
// every release step still runs.
func (e *Env) Teardown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateClosed:
		return nil
	case StateUninitialized:
		e.state = StateClosed
		return nil
	}

	e.state = StateTearingDown

	var err error
	if e.sink != nil && len(e.formats) > 0 && e.coverage.Len() > 0 {
		if err = report.WriteAll(e.coverage, e.formats, e.sink); err != nil {
			e.logger.Warn("failed to write coverage reports", "error", err)
		}
	}

	if e.sess != nil {
		if terr := e.sess.Terminate(); err == nil {
			err = terr
		}
		e.sess = nil
	}
	if e.ownsFactory && e.factory != nil {
		if cerr := e.factory.Close(); err == nil {
			err = cerr
		}
		e.factory = nil
	}

	e.state = StateClosed
	e.logger.Debug("environment closed", "executions", e.metrics.Snapshot().Executions)
	return err
}
