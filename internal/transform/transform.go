package transform

import "fmt"

// Compiler turns a synthesized script body into source the remote runtime
// can execute directly. Implementations are synchronous and stateless.
type Compiler interface {
	Compile(body string) (string, error)
}

// Dialect is the fixed configuration the harness compiles under: markup
// lowering for JSX expressions and dynamic-import syntax for the binding
// statements.
type Dialect struct {
	MarkupLowering bool
	DynamicImport  bool
}

func DefaultDialect() Dialect {
	return Dialect{
		MarkupLowering: true,
		DynamicImport:  true,
	}
}

type ErrorDetail struct {
	Message  string
	File     string
	Line     int
	Column   int
	LineText string
}

type CompileError struct {
	Message string
	Errors  []ErrorDetail
}

func (e *CompileError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, e.Errors[0].Message)
	}
	return e.Message
}
