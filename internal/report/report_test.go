package report

import (
	"encoding/json"
	"errors"
	iofs "io/fs"
	"strings"
	"testing"

	"github.com/solheim-studio/heimdall/internal/coverage"
	"github.com/solheim-studio/heimdall/internal/types"
)

type memFS struct {
	dirs     []string
	files    map[string][]byte
	writeErr error
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string][]byte)}
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, iofs.ErrNotExist
	}
	return data, nil
}

func (m *memFS) ReadDir(path string) ([]iofs.DirEntry, error) {
	return nil, iofs.ErrNotExist
}

func (m *memFS) FileExists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *memFS) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[path] = data
	return nil
}

func (m *memFS) MkdirAll(path string, perm iofs.FileMode) error {
	m.dirs = append(m.dirs, path)
	return nil
}

func coveredMap(t *testing.T) *coverage.Map {
	t.Helper()
	m := coverage.NewMap()
	err := m.Merge(coverage.Snapshot{
		"src/app.js": {
			Path: "src/app.js",
			StatementMap: map[string]coverage.Location{
				"0": {Start: coverage.Position{Line: 1}, End: coverage.Position{Line: 1, Column: 20}},
			},
			FnMap: map[string]coverage.FnMeta{},
			S:     map[string]int{"0": 1},
			F:     map[string]int{},
			B:     map[string][]int{},
		},
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	return m
}

func TestDirSinkWritesConventionalNames(t *testing.T) {
	fsys := newMemFS()
	sink := NewDirSink(fsys, "out/coverage")

	cases := []struct {
		format types.ReportFormat
		name   string
	}{
		{types.FormatJSON, "out/coverage/coverage-final.json"},
		{types.FormatText, "out/coverage/coverage.txt"},
		{types.FormatLCOV, "out/coverage/lcov.info"},
	}
	for _, tc := range cases {
		if err := sink.Write(tc.format, []byte("data")); err != nil {
			t.Fatalf("Write(%s) failed: %v", tc.format, err)
		}
		if !fsys.FileExists(tc.name) {
			t.Errorf("missing %s, wrote %v", tc.name, fsys.files)
		}
	}
	if len(fsys.dirs) == 0 || fsys.dirs[0] != "out/coverage" {
		t.Errorf("report directory not created: %v", fsys.dirs)
	}
}

func TestDirSinkUnknownFormat(t *testing.T) {
	sink := NewDirSink(newMemFS(), "out")
	if err := sink.Write(types.ReportFormat("cobertura"), nil); err == nil {
		t.Fatal("expected unknown format error")
	}
}

func TestWriteAll(t *testing.T) {
	fsys := newMemFS()
	sink := NewDirSink(fsys, "cov")

	m := coveredMap(t)
	formats := []types.ReportFormat{types.FormatJSON, types.FormatText, types.FormatLCOV}
	if err := WriteAll(m, formats, sink); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	raw, err := fsys.ReadFile("cov/coverage-final.json")
	if err != nil {
		t.Fatalf("json report missing: %v", err)
	}
	var decoded map[string]coverage.FileCoverage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("json report does not parse: %v", err)
	}
	if _, ok := decoded["src/app.js"]; !ok {
		t.Error("json report missing file entry")
	}

	lcov, err := fsys.ReadFile("cov/lcov.info")
	if err != nil {
		t.Fatalf("lcov report missing: %v", err)
	}
	if !strings.Contains(string(lcov), "SF:src/app.js") {
		t.Errorf("lcov report malformed:\n%s", lcov)
	}
}

func TestWriteAllStopsOnSinkFailure(t *testing.T) {
	fsys := newMemFS()
	fsys.writeErr = errors.New("disk full")
	sink := NewDirSink(fsys, "cov")

	err := WriteAll(coveredMap(t), []types.ReportFormat{types.FormatJSON}, sink)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v, want sink failure", err)
	}
}
