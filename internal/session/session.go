package session

import "context"

// Session is the narrow view of one live remote browser session: submit a
// script expression for asynchronous execution and await its
// callback-delivered result, or terminate the session.
type Session interface {
	ExecuteAsync(ctx context.Context, script string, arg any) (any, error)
	Terminate() error
}

// Factory establishes sessions against some remote runtime and releases
// the runtime when closed.
type Factory interface {
	NewSession(ctx context.Context, cfg Config) (Session, error)
	Close() error
}

type Config struct {
	BaseURL string
}
