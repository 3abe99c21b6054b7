package usecase

import (
	"fmt"
	iofs "io/fs"
	"path/filepath"

	"github.com/solheim-studio/heimdall/internal/templates"
)

type ScaffoldInput struct {
	ProjectDir string
}

type ScaffoldOutput struct {
	Project string
	Created []string
	Error   error
}

// ScaffoldService lays out a fresh harness workspace from the embedded
// template: config file, module directory, and import map.
type ScaffoldService struct {
	fs  FileSystem
	cli CLIOutput
}

func NewScaffoldService(fs FileSystem, cli CLIOutput) *ScaffoldService {
	return &ScaffoldService{
		fs:  fs,
		cli: cli,
	}
}

func (s *ScaffoldService) InitProject(input ScaffoldInput) ScaffoldOutput {
	s.cli.PrintHeader("Heimdall Init")

	if input.ProjectDir == "" {
		return ScaffoldOutput{Error: fmt.Errorf("missing project directory")}
	}

	if s.fs.FileExists(input.ProjectDir) {
		entries, err := s.fs.ReadDir(input.ProjectDir)
		if err != nil {
			return ScaffoldOutput{Error: fmt.Errorf("failed to read directory: %w", err)}
		}
		if len(entries) > 0 {
			return ScaffoldOutput{Error: fmt.Errorf("directory %q already exists and is not empty", input.ProjectDir)}
		}
	}

	templateFS, err := templates.Harness()
	if err != nil {
		return ScaffoldOutput{Error: err}
	}

	data := templates.TemplateData{
		Project: templates.DeriveProjectName(input.ProjectDir),
	}
	s.cli.PrintStep("Scaffolding %s", data.Project)

	out := ScaffoldOutput{Project: data.Project}
	err = iofs.WalkDir(templateFS, ".", func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return s.fs.MkdirAll(filepath.Join(input.ProjectDir, path), 0o755)
		}

		content, err := iofs.ReadFile(templateFS, path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		target, isTemplate := templates.ProcessFilename(path, data)
		content = templates.ProcessContent(content, isTemplate, data)

		targetPath := filepath.Join(input.ProjectDir, target)
		if err := s.fs.WriteFile(targetPath, content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", targetPath, err)
		}

		out.Created = append(out.Created, targetPath)
		s.cli.PrintFile(targetPath)
		return nil
	})
	if err != nil {
		return ScaffoldOutput{Project: data.Project, Error: err}
	}

	s.cli.PrintSuccess("Created %d files", len(out.Created))
	s.cli.PrintDone("Harness workspace ready")
	return out
}
