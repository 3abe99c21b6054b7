package types

type RequestKind int

const (
	KindAuto RequestKind = iota
	KindElement
	KindThunk
)

type RenderRequest struct {
	Code    string
	Imports []string
	Kind    RequestKind
}

// ContainerRef identifies the DOM node created in the remote runtime for
// one render call. Opaque outside this module.
type ContainerRef string

type Runtime struct {
	Library  string
	Renderer string
}

func DefaultRuntime() Runtime {
	return Runtime{
		Library:  "react",
		Renderer: "react-dom",
	}
}

type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatText ReportFormat = "text"
	FormatLCOV ReportFormat = "lcov"
)
