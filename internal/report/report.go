package report

import (
	"fmt"
	"path/filepath"

	"github.com/solheim-studio/heimdall/internal/adapters/fs"
	"github.com/solheim-studio/heimdall/internal/coverage"
	"github.com/solheim-studio/heimdall/internal/types"
)

// Sink receives finalized coverage reports at teardown.
type Sink interface {
	Write(format types.ReportFormat, data []byte) error
}

var fileNames = map[types.ReportFormat]string{
	types.FormatJSON: "coverage-final.json",
	types.FormatText: "coverage.txt",
	types.FormatLCOV: "lcov.info",
}

// FileName returns the conventional report file name for a format.
func FileName(format types.ReportFormat) (string, bool) {
	name, ok := fileNames[format]
	return name, ok
}

// DirSink writes each report into a single directory under the
// conventional file name for its format.
type DirSink struct {
	fs  fs.FileSystem
	dir string
}

func NewDirSink(filesystem fs.FileSystem, dir string) *DirSink {
	return &DirSink{fs: filesystem, dir: dir}
}

func (s *DirSink) Write(format types.ReportFormat, data []byte) error {
	name, ok := fileNames[format]
	if !ok {
		return fmt.Errorf("no report file name for format %q", format)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := s.fs.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// WriteAll renders every requested format from the map and hands the bytes
// to the sink. The first failure stops the pass.
func WriteAll(m *coverage.Map, formats []types.ReportFormat, sink Sink) error {
	for _, format := range formats {
		data, err := m.Render(format)
		if err != nil {
			return err
		}
		if err := sink.Write(format, data); err != nil {
			return err
		}
	}
	return nil
}
