package status

import (
	"context"
	"errors"
)

// Returned, possibly wrapped, when the rendering engine cannot be started
var ErrEngineUnavailable = errors.New("rendering engine unavailable")

// Something able to produce the final HTML of a page
type Engine interface {
	// Acquire a fresh rendering context. The session is bound to ctx
	// and must be closed by the caller
	Launch(ctx context.Context, config ResolverConfig) (Session, error)
}

// One rendering context, used for a single query and then discarded
type Session interface {
	// Navigate to url, wait for the page to be ready and return its HTML
	Render(ctx context.Context, url string) (string, error)
	Close() error
}
