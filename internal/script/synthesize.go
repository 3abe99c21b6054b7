package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solheim-studio/heimdall/internal/types"
)

var ErrInvalidRequest = errors.New("invalid render request")

// thunkIntroducer is matched purely syntactically against the start of the
// render expression. An expression that merely begins with these tokens
// without being a thunk is misclassified; callers that hit this can set an
// explicit Kind on the request instead.
const thunkIntroducer = "() =>"

type Request struct {
	Code        string
	Imports     []string
	Kind        types.RequestKind
	ContainerID string
	Runtime     types.Runtime
}

func IsThunk(code string) bool {
	return strings.HasPrefix(strings.TrimSpace(code), thunkIntroducer)
}

// Synthesize builds the script body executed inside the remote runtime.
// The body assumes the executor wrapper supplies a completion callback
// named "done" and runs it in an async scope.
func Synthesize(req Request) (string, error) {
	code := trimExpression(req.Code)
	if code == "" {
		return "", fmt.Errorf("%w: code is empty", ErrInvalidRequest)
	}
	if req.ContainerID == "" {
		return "", fmt.Errorf("%w: container id is empty", ErrInvalidRequest)
	}
	for i, stmt := range req.Imports {
		if strings.TrimSpace(stmt) == "" {
			return "", fmt.Errorf("%w: import %d is empty", ErrInvalidRequest, i)
		}
	}

	runtime := req.Runtime
	if runtime.Library == "" {
		runtime.Library = types.DefaultRuntime().Library
	}
	if runtime.Renderer == "" {
		runtime.Renderer = types.DefaultRuntime().Renderer
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "const React = ((m) => m.default ?? m)(await import(%q));\n", runtime.Library)
	fmt.Fprintf(&sb, "const ReactDOM = ((m) => m.default ?? m)(await import(%q));\n", runtime.Renderer)

	for _, stmt := range req.Imports {
		sb.WriteString(strings.TrimSpace(stmt))
		sb.WriteString("\n")
	}

	sb.WriteString("const container = document.createElement(\"div\");\n")
	fmt.Fprintf(&sb, "container.id = %q;\n", req.ContainerID)
	sb.WriteString("document.body.appendChild(container);\n")

	// Hit counters in the page accumulate for the life of the session.
	// Capture hands back a copy and zeroes the live counters so each
	// execution reports only its own hits.
	sb.WriteString("const captureCoverage = () => {\n")
	sb.WriteString("  const live = window.__coverage__;\n")
	sb.WriteString("  if (!live) return null;\n")
	sb.WriteString("  const snapshot = JSON.parse(JSON.stringify(live));\n")
	sb.WriteString("  for (const file of Object.values(live)) {\n")
	sb.WriteString("    for (const key in file.s) file.s[key] = 0;\n")
	sb.WriteString("    for (const key in file.f) file.f[key] = 0;\n")
	sb.WriteString("    for (const key in file.b) file.b[key] = file.b[key].map(() => 0);\n")
	sb.WriteString("  }\n")
	sb.WriteString("  return snapshot;\n")
	sb.WriteString("};\n")

	if invokeAsThunk(code, req.Kind) {
		fmt.Fprintf(&sb, "const element = (%s)();\n", code)
	} else {
		fmt.Fprintf(&sb, "const element = (%s);\n", code)
	}

	sb.WriteString("ReactDOM.render(element, container, () => {\n")
	sb.WriteString("  done({ containerId: container.id, coverage: captureCoverage() });\n")
	sb.WriteString("});\n")

	return sb.String(), nil
}

func invokeAsThunk(code string, kind types.RequestKind) bool {
	switch kind {
	case types.KindThunk:
		return true
	case types.KindElement:
		return false
	default:
		return IsThunk(code)
	}
}

func trimExpression(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimRight(code, ";")
	return strings.TrimSpace(code)
}
