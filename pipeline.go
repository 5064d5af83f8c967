package authpipe

import "context"

// Stage is one unit in an ordered request-processing sequence. Process
// never fails observably: every failure path must yield a valid, possibly
// halted request.
type Stage interface {
	Name() string
	Process(ctx context.Context, req *Request) *Request
}

// StageFunc adapts a named function to the [Stage] interface.
type StageFunc struct {
	StageName string
	Fn        func(ctx context.Context, req *Request) *Request
}

// Name returns the stage name.
func (s StageFunc) Name() string { return s.StageName }

// Process calls the wrapped function.
func (s StageFunc) Process(ctx context.Context, req *Request) *Request {
	return s.Fn(ctx, req)
}

// Pipeline is an ordered list of stages sharing one mutable per-request
// [Request]. It is immutable after construction and safe for concurrent
// use; each Run operates on its own request.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds a pipeline from stages, run in order.
func NewPipeline(stages ...Stage) *Pipeline {
	copied := make([]Stage, len(stages))
	copy(copied, stages)
	return &Pipeline{stages: copied}
}

// Run dispatches req through every stage in order. A stage that halts the
// request stops dispatch; the halted request is returned as-is so the
// transport adapter can flush whatever response an error handler recorded.
func (p *Pipeline) Run(ctx context.Context, req *Request) *Request {
	if req == nil {
		req = NewRequest()
	}
	for _, stage := range p.stages {
		if req.Halted() {
			break
		}
		req = stage.Process(ctx, req)
	}
	return req
}
