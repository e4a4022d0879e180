package renderer

import "context"

// Sink is the display surface that receives each averaged pass
type Sink interface {
	Present(ctx context.Context, result PassResult) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(ctx context.Context, result PassResult) error

func (f SinkFunc) Present(ctx context.Context, result PassResult) error {
	return f(ctx, result)
}
