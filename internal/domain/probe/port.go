package probe

import "context"

// Reporter receives the progress of a run. Implementations must not fail the run.
type Reporter interface {
	Begin(ctx context.Context, endpoints []Endpoint)
	Report(ctx context.Context, r Result)
	End(ctx context.Context, run Run)
}

type Events interface {
	PublishResult(ctx context.Context, r Result) error
}
