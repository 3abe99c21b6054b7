package transform

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

type ESBuild struct {
	dialect Dialect
}

func NewESBuild(dialect Dialect) *ESBuild {
	return &ESBuild{dialect: dialect}
}

func (c *ESBuild) Compile(body string) (string, error) {
	loader := api.LoaderJS
	if c.dialect.MarkupLowering {
		loader = api.LoaderJSX
	}

	result := api.Transform(body, api.TransformOptions{
		Loader:      loader,
		Target:      api.ESNext,
		Format:      api.FormatESModule,
		JSX:         api.JSXTransform,
		JSXFactory:  "React.createElement",
		JSXFragment: "React.Fragment",
		Supported: map[string]bool{
			"dynamic-import": c.dialect.DynamicImport,
		},
	})

	if len(result.Errors) > 0 {
		return "", compileErrorFromMessages(result.Errors)
	}

	return string(result.Code), nil
}

func compileErrorFromMessages(messages []api.Message) *CompileError {
	details := make([]ErrorDetail, len(messages))
	for i, msg := range messages {
		details[i] = ErrorDetail{Message: msg.Text}
		if msg.Location != nil {
			details[i].File = msg.Location.File
			details[i].Line = msg.Location.Line
			details[i].Column = msg.Location.Column
			details[i].LineText = strings.TrimSpace(msg.Location.LineText)
		}
	}
	return &CompileError{
		Message: "script compilation failed",
		Errors:  details,
	}
}
