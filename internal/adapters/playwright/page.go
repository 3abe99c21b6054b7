package playwright

import (
	"context"

	pw "github.com/playwright-community/playwright-go"
)

type pageSession struct {
	page pw.Page
}

type evalResult struct {
	value any
	err   error
}

// ExecuteAsync evaluates script in the page. Evaluation itself has no
// deadline, so expiry of ctx abandons the in-flight call and reports
// ctx.Err() instead.
func (s *pageSession) ExecuteAsync(ctx context.Context, script string, arg any) (any, error) {
	done := make(chan evalResult, 1)
	go func() {
		value, err := s.page.Evaluate(script, arg)
		done <- evalResult{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.value, res.err
	}
}

func (s *pageSession) Terminate() error {
	return s.page.Close()
}
