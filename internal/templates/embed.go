package templates

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed all:harness
var harnessFS embed.FS

// Harness returns the scaffold layout for a new harness workspace.
func Harness() (fs.FS, error) {
	return fs.Sub(harnessFS, "harness")
}

type TemplateData struct {
	Project string
}

// ProcessFilename strips the .tmpl marker and reports whether the file
// content should be processed as a template.
func ProcessFilename(filename string, data TemplateData) (string, bool) {
	if before, ok := strings.CutSuffix(filename, ".tmpl"); ok {
		return before, true
	}
	return filename, false
}

func ProcessContent(content []byte, isTemplate bool, data TemplateData) []byte {
	if !isTemplate {
		return content
	}

	result := string(content)
	result = strings.ReplaceAll(result, "{{.Project}}", data.Project)

	return []byte(result)
}

// DeriveProjectName names a scaffolded workspace after its directory.
func DeriveProjectName(projectDir string) string {
	base := filepath.Base(projectDir)
	if base == "." || base == "/" || base == "" {
		return "harness"
	}
	return base
}
