package ai

import "context"

// Runner executes a remote-model request and returns its result. Context
// controls timeout and cancellation; implementations should check ctx.Done()
// for long-running calls.
type Runner interface {
	Run(ctx context.Context, req *Request) (*Result, error)
}
