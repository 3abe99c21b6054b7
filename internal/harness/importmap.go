package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// ImportMapFile is the optional file looked up in the module tree to
// override the default specifier mapping.
const ImportMapFile = "importmap.json"

// ImportMap maps bare module specifiers to the routes that serve them.
// It is embedded verbatim into the harness document, so synthesized
// scripts can import the rendering runtime by name.
type ImportMap struct {
	Imports map[string]string `json:"imports"`
}

// DefaultImportMap resolves the default runtime specifiers to module
// routes under ModuleRoute.
func DefaultImportMap() ImportMap {
	return ImportMap{Imports: map[string]string{
		"react":     ModuleRoute + "react.js",
		"react-dom": ModuleRoute + "react-dom.js",
	}}
}

func ParseImportMap(data []byte) (ImportMap, error) {
	var m ImportMap
	if err := json.Unmarshal(data, &m); err != nil {
		return ImportMap{}, fmt.Errorf("failed to parse import map: %w", err)
	}

	if len(m.Imports) == 0 {
		return ImportMap{}, fmt.Errorf("import map has no imports")
	}

	for specifier, target := range m.Imports {
		if specifier == "" || target == "" {
			return ImportMap{}, fmt.Errorf("import map entry %q -> %q is incomplete", specifier, target)
		}
	}

	return m, nil
}

// LoadImportMap reads ImportMapFile from the module tree, falling back
// to DefaultImportMap when the file is absent.
func LoadImportMap(fsys fs.FS) (ImportMap, error) {
	data, err := fs.ReadFile(fsys, ImportMapFile)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultImportMap(), nil
	}
	if err != nil {
		return ImportMap{}, fmt.Errorf("failed to read %s: %w", ImportMapFile, err)
	}

	return ParseImportMap(data)
}
