package usecase

import (
	"fmt"
	"path/filepath"

	"github.com/solheim-studio/heimdall/internal/coverage"
	"github.com/solheim-studio/heimdall/internal/report"
	"github.com/solheim-studio/heimdall/internal/types"
)

type CoverInput struct {
	SnapshotPaths []string
	OutDir        string
	Formats       []types.ReportFormat
}

type CoverOutput struct {
	Snapshots   int
	SourceFiles int
	Written     []string
	Error       error
}

// CoverService merges saved execution snapshots offline and emits the
// combined reports, for runs split across processes or machines.
type CoverService struct {
	fs  FileSystem
	cli CLIOutput
}

func NewCoverService(fs FileSystem, cli CLIOutput) *CoverService {
	return &CoverService{
		fs:  fs,
		cli: cli,
	}
}

func (s *CoverService) MergeSnapshots(input CoverInput) CoverOutput {
	s.cli.PrintHeader("Heimdall Cover")

	if len(input.SnapshotPaths) == 0 {
		return CoverOutput{Error: fmt.Errorf("no snapshot files given")}
	}
	if input.OutDir == "" {
		return CoverOutput{Error: fmt.Errorf("missing output directory")}
	}
	if len(input.Formats) == 0 {
		return CoverOutput{Error: fmt.Errorf("no report formats given")}
	}

	m := coverage.NewMap()
	for _, path := range input.SnapshotPaths {
		s.cli.PrintStep("Merging %s", path)

		data, err := s.fs.ReadFile(path)
		if err != nil {
			return CoverOutput{Error: fmt.Errorf("failed to read %s: %w", path, err)}
		}

		snap, err := coverage.ParseSnapshot(data)
		if err != nil {
			return CoverOutput{Error: fmt.Errorf("%s: %w", path, err)}
		}

		if err := m.Merge(snap); err != nil {
			return CoverOutput{Error: fmt.Errorf("failed to merge %s: %w", path, err)}
		}
	}

	sink := report.NewDirSink(s.fs, input.OutDir)
	if err := report.WriteAll(m, input.Formats, sink); err != nil {
		return CoverOutput{Error: err}
	}

	out := CoverOutput{
		Snapshots:   len(input.SnapshotPaths),
		SourceFiles: m.Len(),
	}
	for _, format := range input.Formats {
		name, ok := report.FileName(format)
		if !ok {
			continue
		}
		path := filepath.Join(input.OutDir, name)
		out.Written = append(out.Written, path)
		s.cli.PrintFile(path)
	}

	s.cli.PrintSuccess("Merged %d snapshots covering %d source files", out.Snapshots, out.SourceFiles)
	s.cli.PrintDone("Reports written")
	return out
}
