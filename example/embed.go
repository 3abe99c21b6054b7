package example

import (
	"embed"
	"io/fs"
)

//go:embed all:modules
var ModulesFS embed.FS

// Modules returns the fixture tree rooted at the module files, the shape
// NewHarness expects: a minimal rendering runtime plus an instrumented
// component.
func Modules() fs.FS {
	sub, err := fs.Sub(ModulesFS, "modules")
	if err != nil {
		panic(err)
	}
	return sub
}
