package heimdall

import (
	"io/fs"
	"net/http"

	"github.com/solheim-studio/heimdall/internal/harness"
)

type HarnessOptions = harness.Options

// NewHarness builds the handler a session's base URL should point at:
// the harness document plus the module tree behind it. modules holds the
// instrumented files to serve (an os.DirFS directory or an embed.FS
// sub-tree); an importmap.json inside it overrides the default specifier
// mapping.
func NewHarness(modules fs.FS, opts HarnessOptions) (http.Handler, error) {
	return harness.NewHandler(modules, opts)
}
