package kafka

import (
	"context"

	"github.com/eakomdo/reachprobe/internal/domain/probe"
)

// ResultEvents publishes probe results keyed by endpoint URL.
type ResultEvents struct {
	p *Producer
}

func NewResultEvents(p *Producer) *ResultEvents { return &ResultEvents{p: p} }

var _ probe.Events = (*ResultEvents)(nil)

func (e *ResultEvents) PublishResult(ctx context.Context, r probe.Result) error {
	return e.p.PublishJSON(ctx, []byte(r.URL), r)
}
