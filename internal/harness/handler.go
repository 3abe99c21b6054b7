package harness

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// ModuleRoute is the URL prefix the handler serves module files under.
const ModuleRoute = "/modules/"

type Options struct {
	// Title overrides the document title.
	Title string
	// Imports replaces both the default import map and any
	// importmap.json present in the module tree.
	Imports map[string]string
	// Head is extra markup appended to the document head.
	Head string
}

// Handler serves the harness document at the root route and the module
// tree under ModuleRoute. A session navigates to the root once during
// setup; synthesized scripts then import instrumented modules through
// the import map.
type Handler struct {
	modules fs.FS
	page    []byte
}

func NewHandler(modules fs.FS, opts Options) (*Handler, error) {
	if modules == nil {
		return nil, fmt.Errorf("missing module tree")
	}

	imports, err := LoadImportMap(modules)
	if err != nil {
		return nil, err
	}
	if len(opts.Imports) > 0 {
		imports = ImportMap{Imports: opts.Imports}
	}

	page, err := RenderShell(opts.Title, imports, opts.Head)
	if err != nil {
		return nil, err
	}

	return &Handler{modules: modules, page: []byte(page)}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if strings.HasPrefix(req.URL.Path, ModuleRoute) {
		h.serveModule(w, req)
		return
	}

	if req.URL.Path != "/" {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(h.page)
}

func (h *Handler) serveModule(w http.ResponseWriter, req *http.Request) {
	name := strings.TrimPrefix(req.URL.Path, ModuleRoute)
	if err := validateModulePath(name); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := fs.ReadFile(h.modules, name)
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, req)
		return
	}
	if err != nil {
		http.Error(w, "failed to read module", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", GetContentType(name))
	// Instrumented modules change between runs.
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func validateModulePath(name string) error {
	if name == "" {
		return fmt.Errorf("module path cannot be empty")
	}

	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("module path cannot be absolute")
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf("module path cannot contain parent directory references")
	}

	if path.Clean(name) != name {
		return fmt.Errorf("module path must be clean")
	}

	return nil
}
